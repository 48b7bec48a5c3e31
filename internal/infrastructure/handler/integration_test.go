// internal/infrastructure/handler/integration_test.go
package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/damon-houk/card-transaction-service/internal/application/service"
	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/db"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/handler"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/logger"
	"github.com/damon-houk/card-transaction-service/internal/mocks"
	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	activeCard  = "0588709808286239"
	blockedCard = "5381579886310193"
	expiredCard = "4532015112830366"
)

// envelope mirrors handler.Response with typed payloads
type envelope[T any] struct {
	Data   *T       `json:"dados"`
	Errors []string `json:"erros"`
}

// setupTestServer creates a test server over a real Badger store seeded with cards
func setupTestServer(publisher *mocks.MockEventPublisher) (*httptest.Server, func(), error) {
	tempDir, err := os.MkdirTemp("", "badger-test")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	badgerOpts := badger.DefaultOptions(tempDir)
	badgerOpts.Logger = nil       // Disable logging
	badgerOpts.SyncWrites = false // Improve performance for tests

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage, err := db.NewBadgerStorage(badgerDB)
	if err != nil {
		badgerDB.Close()
		os.RemoveAll(tempDir)
		return nil, nil, err
	}

	if err := seedCards(storage); err != nil {
		storage.Close()
		badgerDB.Close()
		os.RemoveAll(tempDir)
		return nil, nil, err
	}

	log := logger.NewJSONLogger(io.Discard, logger.ErrorLevel)
	txService := service.NewTransactionService(storage.Transactions, storage.Cards, publisher, log)
	txHandler := handler.NewTransactionHandler(txService, log)

	router := mux.NewRouter()
	txHandler.RegisterRoutes(router.PathPrefix("/api").Subrouter())

	server := httptest.NewServer(router)

	cleanup := func() {
		server.Close()
		storage.Close()
		badgerDB.Close()
		os.RemoveAll(tempDir)
	}

	return server, cleanup, nil
}

func seedCards(storage *db.Storage) error {
	ctx := context.Background()

	client, err := storage.Clients.Store(ctx, &entity.Client{Name: "Nome Teste", CPF: "05887098082", UF: "CE"})
	if err != nil {
		return err
	}

	cards := []*entity.Card{
		{Number: activeCard, ExpiryDate: time.Now().AddDate(5, 0, 0), ClientID: client.ID},
		{Number: blockedCard, ExpiryDate: time.Now().AddDate(5, 0, 0), Blocked: true, ClientID: client.ID},
		{Number: expiredCard, ExpiryDate: time.Now().AddDate(-1, 0, 0), ClientID: client.ID},
	}
	for _, card := range cards {
		if _, err := storage.Cards.Store(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

func transactionBody(cardNumber string) map[string]string {
	return map[string]string{
		"dataTransacao": "13/09/2020",
		"cnpj":          "18808626000194",
		"valor":         "15.07",
		"qdtParcelas":   "3",
		"juros":         "2.05",
		"cartaoId":      cardNumber,
	}
}

func postTransaction(t *testing.T, server *httptest.Server, body interface{}) (*http.Response, envelope[handler.TransactionResponse]) {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	resp, err := http.Post(server.URL+"/api/transacao", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope[handler.TransactionResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func getTransactions(t *testing.T, server *httptest.Server, cardNumber string) (*http.Response, envelope[[]handler.TransactionResponse]) {
	t.Helper()

	resp, err := http.Get(server.URL + "/api/transacao/cartao/" + cardNumber)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope[[]handler.TransactionResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestTransactionSaveAndLookup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	publisher := new(mocks.MockEventPublisher)
	publisher.On("PublishTransactionCreated", mock.Anything, mock.AnythingOfType("*entity.Transaction")).Return(nil)

	server, cleanup, err := setupTestServer(publisher)
	require.NoError(t, err)
	defer cleanup()

	// Unknown card before any save
	resp, listed := getTransactions(t, server, activeCard)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, listed.Data)
	require.Len(t, listed.Errors, 1)
	assert.Equal(t, "Data inconsistency: no transactions found for card number "+activeCard, listed.Errors[0])

	// Save
	resp, saved := postTransaction(t, server, transactionBody(activeCard))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, saved.Errors)
	require.NotNil(t, saved.Data)
	assert.NotEqual(t, "0", saved.Data.ID)
	assert.Equal(t, handler.TransactionResponse{
		ID:           saved.Data.ID,
		Date:         "13/09/2020",
		CNPJ:         "18808626000194",
		Amount:       "15.07",
		Installments: "3",
		Interest:     "2.05",
		CardNumber:   activeCard,
	}, *saved.Data)

	// Round trip
	resp, listed = getTransactions(t, server, activeCard)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, listed.Errors)
	require.NotNil(t, listed.Data)
	require.Len(t, *listed.Data, 1)
	assert.Equal(t, *saved.Data, (*listed.Data)[0])

	publisher.AssertNumberOfCalls(t, "PublishTransactionCreated", 1)
}

func TestTransactionSaveRejections(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	publisher := new(mocks.MockEventPublisher)
	server, cleanup, err := setupTestServer(publisher)
	require.NoError(t, err)
	defer cleanup()

	withID := transactionBody(activeCard)
	withID["id"] = "10"

	blockedWithID := transactionBody(blockedCard)
	blockedWithID["id"] = "10"

	invalid := transactionBody(activeCard)
	invalid["cnpj"] = "1880862600019"
	invalid["qdtParcelas"] = "100"

	badAmount := transactionBody(activeCard)
	badAmount["valor"] = "abc"

	tests := []struct {
		name     string
		body     interface{}
		expected []string
	}{
		{
			name:     "Unknown card",
			body:     transactionBody("1111222233334444"),
			expected: []string{"Data inconsistency: no card found with number 1111222233334444"},
		},
		{
			name:     "Blocked card",
			body:     transactionBody(blockedCard),
			expected: []string{"Data inconsistency: transactions cannot be added to this card because it is blocked"},
		},
		{
			name:     "Blocked card wins over ID",
			body:     blockedWithID,
			expected: []string{"Data inconsistency: transactions cannot be added to this card because it is blocked"},
		},
		{
			name:     "Existing ID",
			body:     withID,
			expected: []string{"Data inconsistency: transactions cannot be altered, only created"},
		},
		{
			name:     "Expired card",
			body:     transactionBody(expiredCard),
			expected: []string{"Data inconsistency: transactions cannot be added to this card because it is expired"},
		},
		{
			name: "Field validation",
			body: invalid,
			expected: []string{
				"CNPJ must contain 14 characters.",
				"CNPJ is invalid.",
				"Installment count must contain up to 2 characters.",
			},
		},
		{
			name:     "Conversion",
			body:     badAmount,
			expected: []string{"Amount must be a non-negative decimal number with up to 10 integer digits and 2 decimal places."},
		},
		{
			name:     "Malformed JSON",
			body:     `{"cnpj": `,
			expected: []string{"The request body could not be parsed as valid JSON"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := postTransaction(t, server, tt.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Nil(t, env.Data)
			assert.Equal(t, tt.expected, env.Errors)
		})
	}

	publisher.AssertNotCalled(t, "PublishTransactionCreated", mock.Anything, mock.Anything)

	// Nothing was stored for the active card
	resp, _ := getTransactions(t, server, activeCard)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
