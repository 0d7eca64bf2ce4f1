package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Draft is an unpersisted record produced by an ingestor or supplied for
// manual entry. It is normalized into a Transaction before storage.
type Draft struct {
	Time         time.Time // takes precedence over Date when set
	CategoryID   *int64
	Amount       decimal.Decimal
	Type         TransactionType
	Date         string // raw date text; empty means today
	Description  string
	CategoryName string
}

// HasDate reports whether the draft carries any date information.
func (d Draft) HasDate() bool {
	return !d.Time.IsZero() || strings.TrimSpace(d.Date) != ""
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
