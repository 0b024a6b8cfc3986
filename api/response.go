package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/common"
)

type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

var errorStatusCodes = map[string]int{
	"ValidationError":     http.StatusBadRequest,
	"NotFoundError":       http.StatusNotFound,
	"InsufficientFunds":   http.StatusBadRequest,
	"UpstreamUnavailable": http.StatusServiceUnavailable,
}

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Fprintf(w, "%s", err.Error())
	}
}

// ERROR maps err onto the error taxonomy. Unclassified errors are logged and
// reported without detail.
func ERROR(w http.ResponseWriter, err error) {
	tag := common.ErrorTag(err)
	statusCode, ok := errorStatusCodes[tag]
	message := err.Error()
	if !ok {
		statusCode = http.StatusInternalServerError
		message = "internal server error"
		log.WithError(err).Error("[API] Internal error")
	}

	JSON(w, statusCode, ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Error:      tag,
	})
}
