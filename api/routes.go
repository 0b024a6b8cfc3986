package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/app"
)

var defaultAllowedOrigins = []string{"https://*", "http://*"}

// requestLogger logs every request and records its latency by route pattern.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		app.HTTPRequestDuration.WithLabelValues(route, strconv.Itoa(ww.Status())).Observe(elapsed.Seconds())

		log.WithFields(log.Fields{
			"method":     r.Method,
			"route":      route,
			"status":     ww.Status(),
			"duration":   elapsed.String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("[API] Handled request")
	})
}

func (s *Server) routes() {
	s.r = chi.NewRouter()

	allowedOrigins := s.opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = defaultAllowedOrigins
	}
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.r.Use(middleware.RequestID)
	s.r.Use(middleware.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(middleware.Recoverer)
	if s.opts.Timeout > 0 {
		s.r.Use(middleware.Timeout(s.opts.Timeout))
	}

	s.r.Handle("/metrics", promhttp.Handler())

	s.r.Group(func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Get("/health", s.handleHealth)
		r.Get("/settings", s.handleGetSettings)

		r.Route("/bridgeTransaction", func(r chi.Router) {
			r.Get("/{id}", s.handleGetBridgeTransaction)
			r.Post("/filter", s.handleFilterBridgeTransactions)
		})

		r.Route("/transaction", func(r chi.Router) {
			r.Post("/createBridgingTransaction", s.handleCreateBridgingTransaction)
			r.Post("/bridgingTransactionSubmitted", s.handleBridgingTransactionSubmitted)
		})
	})
}
