package entity

import (
	"time"
)

// Card represents a credit card that transactions are charged against
type Card struct {
	ID         int64     `json:"id"`
	Number     string    `json:"number"`
	ExpiryDate time.Time `json:"expiry_date"`
	Blocked    bool      `json:"blocked"`
	ClientID   int64     `json:"client_id"`
}

// IsExpired reports whether the expiry date lies strictly before now.
// A card expiring exactly at now is still valid.
func (c *Card) IsExpired(now time.Time) bool {
	return c.ExpiryDate.Before(now)
}
