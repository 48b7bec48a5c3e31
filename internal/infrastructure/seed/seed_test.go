// internal/infrastructure/seed/seed_test.go
package seed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
	"github.com/damon-houk/card-transaction-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleSeed = `
clients:
  - name: Nome Teste
    cpf: "05887098082"
    uf: CE
    cards:
      - number: "0588709808286239"
        expiry_date: 2030-12-01
      - number: "5381579886310193"
        expiry_date: 2030-12-01
        blocked: true
`

func TestLoad(t *testing.T) {
	f, err := Load(strings.NewReader(sampleSeed))
	require.NoError(t, err)

	require.Len(t, f.Clients, 1)
	assert.Equal(t, "Nome Teste", f.Clients[0].Name)
	assert.Equal(t, "05887098082", f.Clients[0].CPF)
	require.Len(t, f.Clients[0].Cards, 2)
	assert.Equal(t, "2030-12-01", f.Clients[0].Cards[0].ExpiryDate)
	assert.True(t, f.Clients[0].Cards[1].Blocked)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"Unknown field", "clients:\n  - name: A\n    age: 3\n", "failed to parse"},
		{"Missing name", "clients:\n  - cpf: \"1\"\n", "name is required"},
		{"Missing number", "clients:\n  - name: A\n    cards:\n      - expiry_date: 2030-01-01\n", "number is required"},
		{"Bad expiry", "clients:\n  - name: A\n    cards:\n      - number: \"1\"\n        expiry_date: 01/2030\n", "expiry_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	f, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Clients)
}

func TestApply(t *testing.T) {
	f, err := Load(strings.NewReader(sampleSeed))
	require.NoError(t, err)

	clients := new(mocks.MockClientRepository)
	clients.On("Store", mock.Anything, mock.MatchedBy(func(c *entity.Client) bool {
		return c.Name == "Nome Teste" && c.UF == "CE"
	})).Return(&entity.Client{ID: 9, Name: "Nome Teste"}, nil)

	cards := new(mocks.MockCardRepository)
	cards.On("Store", mock.Anything, mock.MatchedBy(func(c *entity.Card) bool {
		return c.ClientID == 9 && c.ExpiryDate.Equal(time.Date(2030, 12, 1, 0, 0, 0, 0, time.UTC))
	})).Return(&entity.Card{ID: 1}, nil)

	res, err := Apply(context.Background(), f, clients, cards)
	require.NoError(t, err)
	assert.Equal(t, Result{Clients: 1, Cards: 2}, res)

	cards.AssertNumberOfCalls(t, "Store", 2)
	cards.AssertCalled(t, "Store", mock.Anything, mock.MatchedBy(func(c *entity.Card) bool {
		return c.Number == "5381579886310193" && c.Blocked
	}))
}

func TestApplyStopsOnFailure(t *testing.T) {
	f, err := Load(strings.NewReader(sampleSeed))
	require.NoError(t, err)

	clients := new(mocks.MockClientRepository)
	clients.On("Store", mock.Anything, mock.Anything).Return(&entity.Client{ID: 9}, nil)

	cards := new(mocks.MockCardRepository)
	cards.On("Store", mock.Anything, mock.Anything).Return(nil, errors.New("card number already exists")).Once()

	res, err := Apply(context.Background(), f, clients, cards)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0588709808286239")
	assert.Equal(t, Result{Clients: 1, Cards: 0}, res)
	cards.AssertNumberOfCalls(t, "Store", 1)
}
