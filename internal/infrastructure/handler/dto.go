package handler

import (
	"strconv"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
)

// DateLayout is the dd/MM/yyyy transaction date format used on the wire
const DateLayout = "02/01/2006"

// TransactionRequest is the body of POST /api/transacao. Every field is a
// string; a nil field was absent from the JSON body.
type TransactionRequest struct {
	ID           *string `json:"id,omitempty"`
	Date         *string `json:"dataTransacao,omitempty"`
	CNPJ         *string `json:"cnpj,omitempty"`
	Amount       *string `json:"valor,omitempty"`
	Installments *string `json:"qdtParcelas,omitempty"`
	Interest     *string `json:"juros,omitempty"`
	CardNumber   *string `json:"cartaoId,omitempty"`
}

// TransactionResponse is the payload describing one transaction
type TransactionResponse struct {
	ID           string `json:"id"`
	Date         string `json:"dataTransacao"`
	CNPJ         string `json:"cnpj"`
	Amount       string `json:"valor"`
	Installments string `json:"qdtParcelas"`
	Interest     string `json:"juros"`
	CardNumber   string `json:"cartaoId"`
}

// NewTransactionResponse converts a domain transaction for the wire.
// Dates are UTC calendar days.
func NewTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           strconv.FormatInt(tx.ID, 10),
		Date:         tx.Date.UTC().Format(DateLayout),
		CNPJ:         tx.CNPJ,
		Amount:       tx.Amount.StringFixed(2),
		Installments: strconv.Itoa(tx.Installments),
		Interest:     tx.Interest.StringFixed(2),
		CardNumber:   tx.CardNumber,
	}
}

// NewTransactionResponses converts a list, keeping its order
func NewTransactionResponses(txs []*entity.Transaction) []TransactionResponse {
	resp := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, NewTransactionResponse(tx))
	}
	return resp
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
