// Package repository defines the storage ports used by the application layer
package repository

import (
	"context"
	"errors"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
)

// ErrNotFound is returned when a lookup by key matches nothing
var ErrNotFound = errors.New("record not found")

// CardRepository defines the interface for card storage
type CardRepository interface {
	// FindByNumber returns the card with the given number, or ErrNotFound
	FindByNumber(ctx context.Context, number string) (*entity.Card, error)

	// Store persists a new card and returns it with its assigned ID
	Store(ctx context.Context, card *entity.Card) (*entity.Card, error)
}

// ClientRepository defines the interface for card holder storage
type ClientRepository interface {
	Store(ctx context.Context, client *entity.Client) (*entity.Client, error)
}
