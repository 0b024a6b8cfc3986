package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
)

var errSettingsNotLoaded = errors.New("bridging settings not loaded")

type FilterRequest struct {
	OriginChain      *models.Chain    `json:"originChain"`
	DestinationChain *models.Chain    `json:"destinationChain"`
	SenderAddress    string           `json:"senderAddress"`
	ReceiverAddress  string           `json:"receiverAddress"`
	AmountFrom       string           `json:"amountFrom" validate:"omitempty,number"`
	AmountTo         string           `json:"amountTo" validate:"omitempty,number"`
	OrderBy          string           `json:"orderBy" validate:"omitempty,oneof=createdAt amount status"`
	Order            models.SortOrder `json:"order" validate:"omitempty,oneof=ASC DESC asc desc"`
	Page             int64            `json:"page" validate:"gte=0"`
	PerPage          int64            `json:"perPage" validate:"gte=0,lte=100"`
}

func (f FilterRequest) TransactionFilter() models.TransactionFilter {
	return models.TransactionFilter{
		OriginChain:      f.OriginChain,
		DestinationChain: f.DestinationChain,
		SenderAddress:    f.SenderAddress,
		ReceiverAddress:  f.ReceiverAddress,
		AmountFrom:       f.AmountFrom,
		AmountTo:         f.AmountTo,
		OrderBy:          f.OrderBy,
		Order:            f.Order,
		Page:             f.Page,
		PerPage:          f.PerPage,
	}
}

type SettingsResponse struct {
	*models.BridgingSettings
	ValidatorChangeInProgress bool `json:"validatorChangeInProgress"`
}

type HealthResponse struct {
	Healthy  bool                   `json:"healthy"`
	Services []models.ServiceHealth `json:"services"`
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.NewValidationError("invalid request body: %s", err)
	}
	if err := s.validate.Struct(v); err != nil {
		return common.NewValidationError("%s", err)
	}
	return nil
}

func (s *Server) handleGetBridgeTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		ERROR(w, common.NewValidationError("invalid bridge transaction id %q", chi.URLParam(r, "id")))
		return
	}

	tx, err := s.bridge.GetBridgeTransaction(id)
	if err != nil {
		ERROR(w, err)
		return
	}

	JSON(w, http.StatusOK, tx)
}

func (s *Server) handleFilterBridgeTransactions(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := s.decode(r, &req); err != nil {
		ERROR(w, err)
		return
	}

	result, err := s.bridge.FilterBridgeTransactions(req.TransactionFilter())
	if err != nil {
		ERROR(w, err)
		return
	}

	JSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateBridgingTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBridgingTxRequest
	if err := s.decode(r, &req); err != nil {
		ERROR(w, err)
		return
	}

	response, err := s.bridge.CreateBridgingTx(r.Context(), &req)
	if err != nil {
		ERROR(w, err)
		return
	}

	JSON(w, http.StatusOK, response)
}

func (s *Server) handleBridgingTransactionSubmitted(w http.ResponseWriter, r *http.Request) {
	var req models.BridgingTxSubmittedRequest
	if err := s.decode(r, &req); err != nil {
		ERROR(w, err)
		return
	}

	tx, err := s.bridge.SubmitBridgingTx(r.Context(), &req)
	if err != nil {
		ERROR(w, err)
		return
	}

	JSON(w, http.StatusOK, tx)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		if err := s.settings.Refresh(); err != nil {
			ERROR(w, err)
			return
		}
	}

	settings := s.settings.Settings()
	if settings == nil {
		ERROR(w, &common.UpstreamUnavailableError{Upstream: "oracle", Err: errSettingsNotLoaded})
		return
	}

	JSON(w, http.StatusOK, SettingsResponse{
		BridgingSettings:          settings,
		ValidatorChangeInProgress: s.settings.ValidatorChangeInProgress(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{Healthy: true, Services: []models.ServiceHealth{}}
	if s.health != nil {
		for _, health := range s.health.ServiceHealths() {
			response.Services = append(response.Services, health)
			if !health.Healthy {
				response.Healthy = false
			}
		}
	}

	statusCode := http.StatusOK
	if !response.Healthy {
		statusCode = http.StatusServiceUnavailable
	}
	JSON(w, statusCode, response)
}
