package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType carries the direction of money flow. Amounts are always
// stored as magnitudes, so the type is the only place the sign lives.
type TransactionType string

const (
	// TypeExpense is money leaving the user.
	TypeExpense TransactionType = "expense"
	// TypeIncome is money received by the user.
	TypeIncome TransactionType = "income"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// ParseTransactionType converts free text into a TransactionType.
// Matching is case-insensitive.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(lower(s))
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// TypeForSignedAmount infers the direction from a signed amount:
// negative amounts are expenses, everything else is income.
func TypeForSignedAmount(amount decimal.Decimal) TransactionType {
	if amount.IsNegative() {
		return TypeExpense
	}
	return TypeIncome
}

// Transaction is a normalized, persisted financial record owned by a single user.
type Transaction struct {
	Amount       decimal.Decimal // never negative
	CategoryID   *int64          // nil means uncategorized
	ID           string
	UserID       string
	Type         TransactionType
	Description  string
	Date         string // YYYY-MM-DD
	CategoryName string // populated by listing queries only
}
