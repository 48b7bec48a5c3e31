// Package handler internal/infrastructure/handler/validation.go
package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Column limits of the stored amounts: NUMERIC(12,2) and NUMERIC(6,2)
const (
	amountIntegerDigits   = 10
	interestIntegerDigits = 4
	moneyDecimalPlaces    = 2
)

const (
	amountMessage   = "Amount must be a non-negative decimal number with up to 10 integer digits and 2 decimal places."
	interestMessage = "Interest must be a non-negative decimal number with up to 4 integer digits and 2 decimal places."
)

type rule struct {
	tag     string
	message string
}

type fieldRules struct {
	field string
	value func(*TransactionRequest) *string
	rules []rule
}

// The first rule of every field is its required rule
var transactionRules = []fieldRules{
	{
		field: "cnpj",
		value: func(r *TransactionRequest) *string { return r.CNPJ },
		rules: []rule{
			{"required", "CNPJ must not be empty."},
			{"len=14", "CNPJ must contain 14 characters."},
			{"cnpj", "CNPJ is invalid."},
		},
	},
	{
		field: "valor",
		value: func(r *TransactionRequest) *string { return r.Amount },
		rules: []rule{
			{"required", "Amount must not be empty."},
			{"min=1,max=10", "Amount must contain up to 10 characters."},
		},
	},
	{
		field: "qdtParcelas",
		value: func(r *TransactionRequest) *string { return r.Installments },
		rules: []rule{
			{"required", "Installment count must not be empty."},
			{"min=1,max=2", "Installment count must contain up to 2 characters."},
		},
	},
	{
		field: "juros",
		value: func(r *TransactionRequest) *string { return r.Interest },
		rules: []rule{
			{"required", "Interest must not be empty."},
			{"min=1,max=4", "Interest must contain up to 4 characters."},
		},
	},
	{
		field: "cartaoId",
		value: func(r *TransactionRequest) *string { return r.CardNumber },
		rules: []rule{
			{"required", "Card ID must not be empty."},
		},
	},
}

// Validator checks transaction requests field by field and converts them
// into domain transactions
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the cnpj tag registered.
// It panics if the tag cannot be registered.
func NewValidator() *Validator {
	validate := validator.New()
	err := validate.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return entity.ValidCNPJ(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register cnpj validation: %v", err))
	}

	return &Validator{validate: validate}
}

// Validate runs every rule of every field and returns all violation
// messages in field order. An absent field reports only that it is empty.
func (v *Validator) Validate(req *TransactionRequest) []string {
	var violations []string

	for _, f := range transactionRules {
		value := f.value(req)
		if value == nil {
			violations = append(violations, f.rules[0].message)
			continue
		}

		for _, r := range f.rules {
			if err := v.validate.Var(*value, r.tag); err != nil {
				violations = append(violations, r.message)
			}
		}
	}

	return violations
}

// Convert builds a domain transaction from a request that passed Validate.
// Dates are calendar days at UTC midnight; an empty date means the UTC
// calendar day of now. All conversion failures are returned together.
func (v *Validator) Convert(req *TransactionRequest, now time.Time) (*entity.Transaction, []string) {
	var violations []string
	tx := &entity.Transaction{
		CNPJ:       deref(req.CNPJ),
		CardNumber: deref(req.CardNumber),
	}

	// Optional ID
	if id := strings.TrimSpace(deref(req.ID)); id != "" {
		parsed, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			violations = append(violations, "ID must be numeric.")
		}
		tx.ID = parsed
	}

	// Transaction date
	if date := strings.TrimSpace(deref(req.Date)); date != "" {
		parsed, err := time.ParseInLocation(DateLayout, date, time.UTC)
		if err != nil {
			violations = append(violations, "Transaction date must be in dd/MM/yyyy format.")
		}
		tx.Date = parsed
	} else {
		today := now.UTC()
		tx.Date = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	}

	// Money values must fit their columns
	amount, ok := parseMoney(deref(req.Amount), amountIntegerDigits)
	if !ok {
		violations = append(violations, amountMessage)
	}
	tx.Amount = amount

	installments, err := strconv.Atoi(deref(req.Installments))
	if err != nil || installments < 1 || installments > 99 {
		violations = append(violations, "Installment count must be a number between 1 and 99.")
	}
	tx.Installments = installments

	interest, ok := parseMoney(deref(req.Interest), interestIntegerDigits)
	if !ok {
		violations = append(violations, interestMessage)
	}
	tx.Interest = interest

	if len(violations) > 0 {
		return nil, violations
	}
	return tx, nil
}

// parseMoney accepts plain decimal notation only: no exponent, not
// negative, at most integerDigits before the point and two after it
func parseMoney(s string, integerDigits int) (decimal.Decimal, bool) {
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}

	if !d.Equal(d.Truncate(moneyDecimalPlaces)) {
		return decimal.Zero, false
	}
	if len(d.Truncate(0).String()) > integerDigits {
		return decimal.Zero, false
	}

	return d, true
}
