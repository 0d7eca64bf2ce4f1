package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

// DefaultListLimit caps ListTransactions when the filter sets no limit.
const DefaultListLimit = 50

// InsertTransaction stores a new transaction.
func (s *SQLiteStorage) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, category_id, description, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.ID,
		txn.UserID,
		txn.Amount.InexactFloat64(),
		string(txn.Type),
		nullableID(txn.CategoryID),
		txn.Description,
		txn.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}

	return nil
}

// UpdateTransaction replaces every mutable field of a transaction owned by txn.UserID.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount = ?, type = ?, category_id = ?, description = ?, date = ?
		WHERE id = ? AND user_id = ?`,
		txn.Amount.InexactFloat64(),
		string(txn.Type),
		nullableID(txn.CategoryID),
		txn.Description,
		txn.Date,
		txn.ID,
		txn.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.ID, err)
	}

	return requireAffected(result, txn.ID)
}

// DeleteTransaction removes a transaction owned by userID.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id, userID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}

	return requireAffected(result, id)
}

// ListTransactions returns a user's transactions, newest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, userID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT t.id, t.user_id, t.amount, t.type, t.category_id,
		       t.description, t.date, COALESCE(c.name, '')
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = ?`
	args := []any{userID}

	switch {
	case filter.Date != "":
		query += " AND t.date = ?"
		args = append(args, filter.Date)
	case filter.Month != 0 && filter.Year != 0:
		start, end, err := MonthRange(filter.Month, filter.Year)
		if err != nil {
			return nil, err
		}
		query += " AND t.date >= ? AND t.date < ?"
		args = append(args, start, end)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query += " ORDER BY t.date DESC, t.rowid DESC LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var (
			txn        model.Transaction
			amount     float64
			txnType    string
			categoryID sql.NullInt64
		)
		if err := rows.Scan(&txn.ID, &txn.UserID, &amount, &txnType, &categoryID,
			&txn.Description, &txn.Date, &txn.CategoryName); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Amount = decimal.NewFromFloat(amount)
		txn.Type = model.TransactionType(txnType)
		if categoryID.Valid {
			id := categoryID.Int64
			txn.CategoryID = &id
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// SetTransactionCategory moves every transaction of userID whose
// description contains keyword (case-insensitively) into categoryID.
// It returns the number of transactions updated.
func (s *SQLiteStorage) SetTransactionCategory(ctx context.Context, userID, keyword string, categoryID int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}
	if err := validateString(keyword, "keyword"); err != nil {
		return 0, err
	}

	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(keyword))) + "%"
	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET category_id = ?
		WHERE user_id = ? AND LOWER(description) LIKE ? ESCAPE '\'`,
		categoryID, userID, pattern)
	if err != nil {
		return 0, fmt.Errorf("failed to recategorize transactions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count recategorized transactions: %w", err)
	}

	slog.Debug("recategorized transactions", "user_id", userID, "keyword", keyword, "count", n)
	return int(n), nil
}

func requireAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// MonthRange returns the half-open [start, end) date range of a calendar month.
func MonthRange(month, year int) (start, end string, err error) {
	if month < 1 || month > 12 {
		return "", "", common.NewValidationError("month", fmt.Sprintf("%d is not between 1 and 12", month))
	}
	if year < 1 {
		return "", "", common.NewValidationError("year", fmt.Sprintf("%d is not a valid year", year))
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return model.CalendarDate(first), model.CalendarDate(first.AddDate(0, 1, 0)), nil
}
