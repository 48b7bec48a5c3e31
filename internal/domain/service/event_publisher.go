package service

import (
	"context"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
)

// EventPublisher announces domain events to other systems
type EventPublisher interface {
	// PublishTransactionCreated announces a newly persisted transaction
	PublishTransactionCreated(ctx context.Context, tx *entity.Transaction) error
}
