package repository

import (
	"context"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
)

// TransactionRepository defines the interface for transaction storage
type TransactionRepository interface {
	// Store persists a new transaction and returns it with its assigned ID
	Store(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error)

	// FindByCardNumber returns every transaction charged against the card,
	// in ascending ID order. No match is an empty slice, not an error.
	FindByCardNumber(ctx context.Context, cardNumber string) ([]*entity.Transaction, error)
}
