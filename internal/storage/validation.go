// Package storage provides the data persistence layer for spendwise.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/spendwise/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction checks the invariants every stored transaction must hold.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidTransaction)
	}
	if txn.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", ErrInvalidTransaction, txn.Amount)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: type %q", ErrInvalidTransaction, txn.Type)
	}
	if _, err := model.ParseDate(txn.Date); err != nil || len(txn.Date) != len(model.DateLayout) {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidTransaction, txn.Date)
	}
	return nil
}
