package entity

import (
	"errors"
	"fmt"
)

// Reasons attached to data inconsistency errors
const (
	ReasonTransactionsNotFound = "transactions_not_found"
	ReasonCardNotFound         = "card_not_found"
	ReasonCardBlocked          = "card_blocked"
	ReasonTransactionImmutable = "transaction_immutable"
	ReasonCardExpired          = "card_expired"
)

// InconsistencyError is an expected business-rule violation, as opposed to
// an infrastructure failure
type InconsistencyError struct {
	Reason  string
	Message string
}

func (e *InconsistencyError) Error() string {
	return e.Message
}

// NewInconsistencyError creates a data inconsistency error with a formatted message
func NewInconsistencyError(reason, format string, args ...interface{}) error {
	return &InconsistencyError{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsInconsistency reports whether err, or anything it wraps, is a data inconsistency
func IsInconsistency(err error) bool {
	var inconsistency *InconsistencyError
	return errors.As(err, &inconsistency)
}

// InconsistencyReason returns the reason of a data inconsistency, or "" for other errors
func InconsistencyReason(err error) string {
	var inconsistency *InconsistencyError
	if errors.As(err, &inconsistency) {
		return inconsistency.Reason
	}
	return ""
}
