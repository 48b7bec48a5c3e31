// internal/infrastructure/db/gorm_model_test.go
package db

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// useLocalZone swaps time.Local for the duration of the test
func useLocalZone(t *testing.T, loc *time.Location) {
	t.Helper()
	previous := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = previous })
}

func TestModelsNormalizeScannedTimesToUTC(t *testing.T) {
	// UTC-3, the reference deployment zone
	useLocalZone(t, time.FixedZone("BRT", -3*60*60))

	saved := time.Date(2020, 9, 13, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2030, 12, 1, 0, 0, 0, 0, time.UTC)

	// pgx scans timestamps as time.Unix, i.e. in time.Local
	txModel := transactionModel{
		ID:           1,
		Date:         time.Unix(saved.Unix(), 0),
		Amount:       decimal.RequireFromString("15.07"),
		Interest:     decimal.RequireFromString("2.05"),
		Installments: 3,
		CardNumber:   "0588709808286239",
	}
	assert.Equal(t, "12/09/2020", txModel.Date.Format("02/01/2006"), "local representation shifts the day")

	tx := txModel.toEntity()
	assert.Equal(t, time.UTC, tx.Date.Location())
	assert.Equal(t, "13/09/2020", tx.Date.Format("02/01/2006"))
	assert.True(t, saved.Equal(tx.Date))

	stored := cardModel{ID: 1, Number: "0588709808286239", ExpiryDate: time.Unix(expiry.Unix(), 0)}
	card := stored.toEntity()
	assert.Equal(t, time.UTC, card.ExpiryDate.Location())
	assert.Equal(t, "2030-12-01", card.ExpiryDate.Format("2006-01-02"))
}
