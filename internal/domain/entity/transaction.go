package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a purchase charged against a card
type Transaction struct {
	ID           int64           `json:"id"`
	Date         time.Time       `json:"date"`
	CNPJ         string          `json:"cnpj"`
	Amount       decimal.Decimal `json:"amount"`
	Installments int             `json:"installments"`
	Interest     decimal.Decimal `json:"interest"`
	CardID       int64           `json:"card_id"`
	CardNumber   string          `json:"card_number"`
}

// IsPersisted reports whether storage has already assigned an identifier
func (t *Transaction) IsPersisted() bool {
	return t.ID > 0
}

// BindCard points the transaction at the authoritative card record
func (t *Transaction) BindCard(card *Card) {
	t.CardID = card.ID
	t.CardNumber = card.Number
}
