// internal/infrastructure/handler/envelope.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/damon-houk/card-transaction-service/internal/infrastructure/logger"
)

// Response is the envelope of every API response. Data is set only on
// success and Errors only on failure.
type Response struct {
	Data   interface{} `json:"dados,omitempty"`
	Errors []string    `json:"erros,omitempty"`
}

const (
	inconsistencyPrefix = "Data inconsistency: "
	applicationPrefix   = "An application error occurred: "
)

func inconsistencyMessage(err error) string {
	return inconsistencyPrefix + err.Error()
}

func applicationMessage(err error) string {
	return applicationPrefix + err.Error()
}

// sendData writes a successful envelope
func sendData(w http.ResponseWriter, log logger.Logger, data interface{}) {
	writeJSON(w, log, http.StatusOK, Response{Data: data})
}

// sendErrors writes a failure envelope with the given status
func sendErrors(w http.ResponseWriter, log logger.Logger, statusCode int, messages ...string) {
	writeJSON(w, log, statusCode, Response{Errors: messages})
}

// writeJSON encodes body with the given status; encoding failures are logged
func writeJSON(w http.ResponseWriter, log logger.Logger, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"status_code": statusCode,
			"error":       err.Error(),
		})
	}
}
