package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/app"
	"github.com/dan13ram/bridge-reactor/models"
)

const (
	APIServiceName = "API"

	shutdownTimeout = 5 * time.Second
)

type BridgeService interface {
	CreateBridgingTx(ctx context.Context, req *models.CreateBridgingTxRequest) (*models.CreateBridgingTxResponse, error)
	SubmitBridgingTx(ctx context.Context, req *models.BridgingTxSubmittedRequest) (*models.BridgeTransaction, error)
	GetBridgeTransaction(id int64) (*models.BridgeTransaction, error)
	FilterBridgeTransactions(filter models.TransactionFilter) (*models.PaginatedTransactions, error)
}

type SettingsSource interface {
	Settings() *models.BridgingSettings
	ValidatorChangeInProgress() bool
	Refresh() error
}

type HealthSource interface {
	ServiceHealths() []models.ServiceHealth
}

type ServerOpts struct {
	Port           string
	AllowedOrigins []string
	Timeout        time.Duration
}

// Server is the HTTP API. It runs as an app.Service.
type Server struct {
	r        chi.Router
	bridge   BridgeService
	settings SettingsSource
	health   HealthSource
	validate *validator.Validate
	opts     ServerOpts

	httpServer *http.Server
	wg         *sync.WaitGroup
}

func NewServer(opts ServerOpts, bridge BridgeService, settings SettingsSource, health HealthSource) *Server {
	s := &Server{
		bridge:   bridge,
		settings: settings,
		health:   health,
		validate: validator.New(),
		opts:     opts,
	}
	s.routes()
	s.httpServer = &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}

func (s *Server) Start() {
	if s.wg != nil {
		defer s.wg.Done()
	}

	log.Info("[API] Listening on port ", s.opts.Port)
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("[API] Server stopped unexpectedly")
		return
	}
	log.Info("[API] Server stopped")
}

func (s *Server) Health() models.ServiceHealth {
	return models.ServiceHealth{
		Name:         APIServiceName,
		LastSyncTime: time.Now(),
		Details:      map[string]string{"port": s.opts.Port},
		Healthy:      true,
	}
}

func (s *Server) Stop() {
	log.Debug("[API] Stopping server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("[API] Error shutting down server")
	}
}

func NewAPIService(wg *sync.WaitGroup, bridge BridgeService, settings SettingsSource, health HealthSource) app.Service {
	log.Debug("[API] Initializing server")

	s := NewServer(ServerOpts{
		Port:           app.Config.API.Port,
		AllowedOrigins: app.Config.API.AllowedOrigins,
		Timeout:        time.Duration(app.Config.API.TimeoutMillis) * time.Millisecond,
	}, bridge, settings, health)
	s.wg = wg

	log.Info("[API] Initialized server")

	return s
}
