// internal/infrastructure/middleware/middleware_test.go
package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damon-houk/card-transaction-service/internal/infrastructure/logger"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Context().Value(requestIDKey)
		assert.NotNil(t, requestID)

		w.Write([]byte(requestID.(string)))
	})

	middleware := RequestIDMiddleware(nextHandler)

	// No incoming ID: one is generated
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	middleware.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	requestID := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, w.Body.String())

	// Incoming ID is preserved
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "test-id-123")
	w = httptest.NewRecorder()
	middleware.ServeHTTP(w, req)

	assert.Equal(t, "test-id-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "test-id-123", w.Body.String())
}

func TestGetRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestIDKey, "test-id-123")
	assert.Equal(t, "test-id-123", GetRequestID(ctx))

	assert.Equal(t, "unknown", GetRequestID(context.Background()))
}

func TestMiddlewareChain(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, logger.InfoLevel)

	finalHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetRequestID(r.Context())))
	})

	chain := RequestIDMiddleware(LoggingMiddleware(log)(finalHandler))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "test-id-123")
	w := httptest.NewRecorder()
	chain.ServeHTTP(w, req)

	assert.Equal(t, "test-id-123", w.Body.String())

	logs := buf.String()
	assert.Contains(t, logs, "test-id-123", "Request ID should be in logs")
	assert.Contains(t, logs, "Response sent")
}

func TestLoggingMiddlewareLogsServerErrorsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, logger.ErrorLevel)

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	LoggingMiddleware(log)(failing).ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	logs := buf.String()
	assert.Contains(t, logs, "Response sent")
	assert.Contains(t, logs, `"status":500`)
	assert.NotContains(t, logs, "Request received")
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(MetricsMiddleware)
	router.HandleFunc("/api/transacao/cartao/{cartaoNumero}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}).Methods(http.MethodGet)

	counter := metrics.HTTPRequests.WithLabelValues("/api/transacao/cartao/{cartaoNumero}", http.MethodGet, "400")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transacao/cartao/1234", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
