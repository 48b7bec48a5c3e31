// Package db internal/infrastructure/db/gorm_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
	"github.com/damon-houk/card-transaction-service/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Table models. The schema itself is owned by the SQL migrations.

type clientModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;size:100"`
	CPF  string `gorm:"column:cpf;not null;size:11"`
	UF   string `gorm:"column:uf;not null;size:2"`
}

func (clientModel) TableName() string {
	return "clients"
}

type cardModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Number     string    `gorm:"column:number;unique;not null;size:16"`
	ExpiryDate time.Time `gorm:"column:expiry_date;not null"`
	Blocked    bool      `gorm:"column:blocked;not null;default:false"`
	ClientID   int64     `gorm:"column:client_id;not null"`
}

func (cardModel) TableName() string {
	return "cards"
}

func (m *cardModel) toEntity() *entity.Card {
	return &entity.Card{
		ID:         m.ID,
		Number:     m.Number,
		ExpiryDate: m.ExpiryDate.UTC(),
		Blocked:    m.Blocked,
		ClientID:   m.ClientID,
	}
}

type transactionModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	Date         time.Time       `gorm:"column:date;type:date;not null"`
	CNPJ         string          `gorm:"column:cnpj;not null;size:14"`
	Amount       decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Installments int             `gorm:"column:installments;not null"`
	Interest     decimal.Decimal `gorm:"column:interest;type:numeric(6,2);not null"`
	CardID       int64           `gorm:"column:card_id;not null;index"`
	// Filled by the join in FindByCardNumber, never written
	CardNumber string `gorm:"column:card_number;->;-:migration"`
}

func (transactionModel) TableName() string {
	return "transactions"
}

// pgx scans timestamps into time.Local; entities always carry UTC
func (m *transactionModel) toEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:           m.ID,
		Date:         m.Date.UTC(),
		CNPJ:         m.CNPJ,
		Amount:       m.Amount,
		Installments: m.Installments,
		Interest:     m.Interest,
		CardID:       m.CardID,
		CardNumber:   m.CardNumber,
	}
}

// GormTransactionRepository implements the transaction repository on PostgreSQL
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GORM transaction repository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Store inserts the transaction; the database assigns its ID
func (r *GormTransactionRepository) Store(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error) {
	model := transactionModel{
		Date:         tx.Date,
		CNPJ:         tx.CNPJ,
		Amount:       tx.Amount,
		Installments: tx.Installments,
		Interest:     tx.Interest,
		CardID:       tx.CardID,
	}

	// Insert and let the database assign the ID
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	stored := *tx
	stored.ID = model.ID
	return &stored, nil
}

// FindByCardNumber retrieves every transaction charged against the card
func (r *GormTransactionRepository) FindByCardNumber(ctx context.Context, cardNumber string) ([]*entity.Transaction, error) {
	var models []transactionModel

	// Join cards so the number comes back with each row
	err := r.db.WithContext(ctx).
		Select("transactions.*, cards.number AS card_number").
		Joins("JOIN cards ON cards.id = transactions.card_id").
		Where("cards.number = ?", cardNumber).
		Order("transactions.id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	// Convert to entities
	txs := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		txs = append(txs, models[i].toEntity())
	}
	return txs, nil
}

// GormCardRepository implements the card repository on PostgreSQL
type GormCardRepository struct {
	db *gorm.DB
}

// NewGormCardRepository creates a new GORM card repository
func NewGormCardRepository(db *gorm.DB) *GormCardRepository {
	return &GormCardRepository{db: db}
}

// FindByNumber retrieves a card by its number
func (r *GormCardRepository) FindByNumber(ctx context.Context, number string) (*entity.Card, error) {
	var model cardModel

	err := r.db.WithContext(ctx).Where("number = ?", number).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve card: %w", err)
	}

	return model.toEntity(), nil
}

// Store inserts a new card
func (r *GormCardRepository) Store(ctx context.Context, card *entity.Card) (*entity.Card, error) {
	model := cardModel{
		Number:     card.Number,
		ExpiryDate: card.ExpiryDate,
		Blocked:    card.Blocked,
		ClientID:   card.ClientID,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, fmt.Errorf("failed to store card: %w", err)
	}

	stored := *card
	stored.ID = model.ID
	return &stored, nil
}

// GormClientRepository implements the client repository on PostgreSQL
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GORM client repository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Store inserts a new client
func (r *GormClientRepository) Store(ctx context.Context, client *entity.Client) (*entity.Client, error) {
	model := clientModel{
		Name: client.Name,
		CPF:  client.CPF,
		UF:   client.UF,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, fmt.Errorf("failed to store client: %w", err)
	}

	stored := *client
	stored.ID = model.ID
	return &stored, nil
}
