package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
	"github.com/damon-houk/card-transaction-service/internal/domain/repository"
	domainservice "github.com/damon-houk/card-transaction-service/internal/domain/service"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/logger"
)

// TransactionService handles business logic for card transactions
type TransactionService struct {
	txRepo    repository.TransactionRepository
	cardRepo  repository.CardRepository
	publisher domainservice.EventPublisher
	logger    logger.Logger
	now       func() time.Time
}

// NewTransactionService creates a new transaction service. A nil publisher
// disables event publishing and a nil logger falls back to the default one.
func NewTransactionService(
	txRepo repository.TransactionRepository,
	cardRepo repository.CardRepository,
	publisher domainservice.EventPublisher,
	log logger.Logger,
) *TransactionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionService{
		txRepo:    txRepo,
		cardRepo:  cardRepo,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// FindByCardNumber returns the transactions charged against a card.
// An empty result is a data inconsistency.
func (s *TransactionService) FindByCardNumber(ctx context.Context, cardNumber string) ([]*entity.Transaction, error) {
	s.logger.Info("Finding transactions by card number", map[string]interface{}{
		"card_number": cardNumber,
	})

	txs, err := s.txRepo.FindByCardNumber(ctx, cardNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions for card %s: %w", cardNumber, err)
	}

	if len(txs) == 0 {
		s.logger.Info("No transactions found", map[string]interface{}{
			"card_number": cardNumber,
		})
		return nil, entity.NewInconsistencyError(entity.ReasonTransactionsNotFound,
			"no transactions found for card number %s", cardNumber)
	}

	return txs, nil
}

// Save records a new transaction after checking, in this order, that the
// card exists, is not blocked, that the transaction is not already
// persisted, and that the card is not expired
func (s *TransactionService) Save(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error) {
	s.logger.Info("Saving transaction", map[string]interface{}{
		"card_number": tx.CardNumber,
		"id":          tx.ID,
	})

	// Resolve the card
	card, err := s.cardRepo.FindByNumber(ctx, tx.CardNumber)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Info("Card not found", map[string]interface{}{
			"card_number": tx.CardNumber,
		})
		return nil, entity.NewInconsistencyError(entity.ReasonCardNotFound,
			"no card found with number %s", tx.CardNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card %s: %w", tx.CardNumber, err)
	}

	// Bind to the stored card, not the one in the payload
	bound := *tx
	bound.BindCard(card)

	if card.Blocked {
		s.logger.Info("Card is blocked", map[string]interface{}{
			"card_id": card.ID,
		})
		return nil, entity.NewInconsistencyError(entity.ReasonCardBlocked,
			"transactions cannot be added to this card because it is blocked")
	}

	if bound.IsPersisted() {
		s.logger.Info("Attempt to alter a persisted transaction", map[string]interface{}{
			"id": bound.ID,
		})
		return nil, entity.NewInconsistencyError(entity.ReasonTransactionImmutable,
			"transactions cannot be altered, only created")
	}

	if card.IsExpired(s.now()) {
		s.logger.Info("Card is expired", map[string]interface{}{
			"card_id":     card.ID,
			"expiry_date": card.ExpiryDate.Format(time.RFC3339),
		})
		return nil, entity.NewInconsistencyError(entity.ReasonCardExpired,
			"transactions cannot be added to this card because it is expired")
	}

	// Store in repository
	saved, err := s.txRepo.Store(ctx, &bound)
	if err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	// Publish event
	s.publishCreated(ctx, saved)

	return saved, nil
}

// publishCreated announces the transaction. The transaction is already
// persisted, so a failure here is only logged.
func (s *TransactionService) publishCreated(ctx context.Context, tx *entity.Transaction) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishTransactionCreated(ctx, tx); err != nil {
		s.logger.Warn("Failed to publish transaction created event", map[string]interface{}{
			"id":    tx.ID,
			"error": err.Error(),
		})
	}
}
