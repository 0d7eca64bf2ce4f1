package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/service"
)

// MonthlyTotals sums a user's expenses and income for one calendar month.
func (s *SQLiteStorage) MonthlyTotals(ctx context.Context, userID string, month, year int) (*service.MonthlyTotals, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	start, end, err := MonthRange(month, year)
	if err != nil {
		return nil, err
	}

	var expenses, income float64
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?`,
		userID, start, end,
	).Scan(&expenses, &income)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}

	return &service.MonthlyTotals{
		Month:         month,
		Year:          year,
		TotalExpenses: decimal.NewFromFloat(expenses).Round(2),
		TotalIncome:   decimal.NewFromFloat(income).Round(2),
	}, nil
}

// TopExpenseCategory returns the category with the largest expense total
// in the month, or nil when the user has no categorized expenses.
func (s *SQLiteStorage) TopExpenseCategory(ctx context.Context, userID string, month, year int) (*service.CategorySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	start, end, err := MonthRange(month, year)
	if err != nil {
		return nil, err
	}

	var (
		summary service.CategorySummary
		total   float64
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT c.name, SUM(t.amount) AS total, COUNT(*)
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = ? AND t.type = 'expense' AND t.date >= ? AND t.date < ?
		GROUP BY c.id, c.name
		ORDER BY total DESC, c.name ASC
		LIMIT 1`,
		userID, start, end,
	).Scan(&summary.Name, &total, &summary.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query top category: %w", err)
	}

	summary.Amount = decimal.NewFromFloat(total).Round(2)
	return &summary, nil
}
