package handler

import (
	"net/http"

	"github.com/damon-houk/card-transaction-service/internal/infrastructure/logger"
)

// Health answers liveness probes
func Health(log logger.Logger) http.HandlerFunc {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
	}
}
