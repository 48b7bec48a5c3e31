package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/damon-houk/card-transaction-service/internal/application/service"
	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/logger"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/metrics"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// TransactionHandler handles HTTP requests for card transactions
type TransactionHandler struct {
	service   *service.TransactionService
	validator *Validator
	logger    logger.Logger
	now       func() time.Time
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service *service.TransactionService, log logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionHandler{
		service:   service,
		validator: NewValidator(),
		logger:    log,
		now:       time.Now,
	}
}

// FindByCardNumber handles GET /api/transacao/cartao/{cartaoNumero}
func (h *TransactionHandler) FindByCardNumber(w http.ResponseWriter, r *http.Request) {
	cardNumber := mux.Vars(r)["cartaoNumero"]
	log := h.logger.WithField("request_id", middleware.GetRequestID(r.Context()))

	log.Info("Handling find transactions by card request", map[string]interface{}{
		"card_number": cardNumber,
	})

	txs, err := h.service.FindByCardNumber(r.Context(), cardNumber)
	if err != nil {
		h.sendServiceError(w, log, err)
		return
	}

	log.Info("Transactions retrieved successfully", map[string]interface{}{
		"card_number": cardNumber,
		"count":       len(txs),
	})

	sendData(w, log, NewTransactionResponses(txs))
}

// SaveTransaction handles POST /api/transacao
func (h *TransactionHandler) SaveTransaction(w http.ResponseWriter, r *http.Request) {
	log := h.logger.WithField("request_id", middleware.GetRequestID(r.Context()))

	// Parse request body
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.TransactionsRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		sendErrors(w, log, http.StatusBadRequest, "The request body could not be parsed as valid JSON")
		return
	}

	log.Info("Handling save transaction request", map[string]interface{}{
		"id":          deref(req.ID),
		"date":        deref(req.Date),
		"cnpj":        deref(req.CNPJ),
		"amount":      deref(req.Amount),
		"installment": deref(req.Installments),
		"interest":    deref(req.Interest),
		"card_number": deref(req.CardNumber),
	})

	// Validate fields
	if violations := h.validator.Validate(&req); len(violations) > 0 {
		h.rejectInvalid(w, log, violations)
		return
	}

	// Convert payload
	tx, violations := h.validator.Convert(&req, h.now())
	if len(violations) > 0 {
		h.rejectInvalid(w, log, violations)
		return
	}

	// Call service
	saved, err := h.service.Save(r.Context(), tx)
	if err != nil {
		metrics.TransactionsRejected.WithLabelValues(rejectionReason(err)).Inc()
		h.sendServiceError(w, log, err)
		return
	}

	metrics.TransactionsSaved.Inc()
	log.Info("Transaction saved successfully", map[string]interface{}{
		"id": saved.ID,
	})

	// Return success response
	sendData(w, log, NewTransactionResponse(saved))
}

// RegisterRoutes registers the transaction routes on an /api subrouter
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transacao/cartao/{cartaoNumero}", h.FindByCardNumber).Methods(http.MethodGet)
	router.HandleFunc("/transacao", h.SaveTransaction).Methods(http.MethodPost)

	h.logger.Info("Transaction routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/transacao/cartao/{cartaoNumero}",
			"POST /api/transacao",
		},
	})
}

func (h *TransactionHandler) rejectInvalid(w http.ResponseWriter, log logger.Logger, violations []string) {
	log.Info("Transaction request rejected by validation", map[string]interface{}{
		"violations": violations,
	})
	metrics.TransactionsRejected.WithLabelValues(metrics.ReasonValidation).Inc()
	sendErrors(w, log, http.StatusBadRequest, violations...)
}

// sendServiceError maps data inconsistencies to 400 and anything else to 500
func (h *TransactionHandler) sendServiceError(w http.ResponseWriter, log logger.Logger, err error) {
	if entity.IsInconsistency(err) {
		log.Info("Data inconsistency", map[string]interface{}{
			"reason": entity.InconsistencyReason(err),
			"error":  err.Error(),
		})
		sendErrors(w, log, http.StatusBadRequest, inconsistencyMessage(err))
		return
	}

	log.Error("Unexpected error", map[string]interface{}{
		"error": err.Error(),
	})
	sendErrors(w, log, http.StatusInternalServerError, applicationMessage(err))
}

func rejectionReason(err error) string {
	if reason := entity.InconsistencyReason(err); reason != "" {
		return reason
	}
	return metrics.ReasonInternal
}
