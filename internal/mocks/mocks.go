// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository mocks the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Store(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByCardNumber(ctx context.Context, cardNumber string) ([]*entity.Transaction, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

// MockCardRepository mocks the CardRepository interface
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) FindByNumber(ctx context.Context, number string) (*entity.Card, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Card), args.Error(1)
}

func (m *MockCardRepository) Store(ctx context.Context, card *entity.Card) (*entity.Card, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Card), args.Error(1)
}

// MockClientRepository mocks the ClientRepository interface
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Store(ctx context.Context, client *entity.Client) (*entity.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

// MockEventPublisher mocks the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishTransactionCreated(ctx context.Context, tx *entity.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
