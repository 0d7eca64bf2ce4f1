// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// Date takes precedence over Month/Year.
type TransactionFilter struct {
	Date   string // YYYY-MM-DD
	Month  int
	Year   int
	Limit  int
	Offset int
}

// CategoryStore is the category half of the storage boundary.
type CategoryStore interface {
	// FindCategoryByName looks a name up case-insensitively among the
	// user's own categories and the defaults. It returns nil, nil when absent.
	FindCategoryByName(ctx context.Context, userID, name string) (*model.Category, error)
	// FindOrCreateCategory atomically returns the visible category with
	// this name, creating one owned by userID if none exists.
	FindOrCreateCategory(ctx context.Context, userID, name, color string) (*model.Category, error)
	ListCategories(ctx context.Context, userID string) ([]model.Category, error)
}

// TransactionStore is the transaction half of the storage boundary.
// Update and delete are guarded by (id, userID) and return
// common.ErrNotFound when no owned row matches.
type TransactionStore interface {
	InsertTransaction(ctx context.Context, txn *model.Transaction) error
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id, userID string) error
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]model.Transaction, error)
	SetTransactionCategory(ctx context.Context, userID, descriptionKeyword string, categoryID int64) (int, error)
}

// ReportStore answers the aggregate questions behind stats and insights.
type ReportStore interface {
	MonthlyTotals(ctx context.Context, userID string, month, year int) (*MonthlyTotals, error)
	TopExpenseCategory(ctx context.Context, userID string, month, year int) (*CategorySummary, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CategoryStore
	TransactionStore
	ReportStore

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// MonthlyTotals sums a user's transactions for one calendar month.
type MonthlyTotals struct {
	TotalExpenses decimal.Decimal
	TotalIncome   decimal.Decimal
	Month         int
	Year          int
}

// CategorySummary contains aggregated statistics for a category.
type CategorySummary struct {
	Name   string
	Amount decimal.Decimal
	Count  int
}
