package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spendwise/internal/model"
)

const categoryColumns = `id, name, COALESCE(user_id, ''), is_default, color, created_at`

// FindCategoryByName returns the category visible to userID whose name
// matches case-insensitively. A category owned by the user wins over a
// default with the same name. It returns nil, nil when nothing matches.
func (s *SQLiteStorage) FindCategoryByName(ctx context.Context, userID, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return findCategoryByName(ctx, s.db, userID, name)
}

func findCategoryByName(ctx context.Context, q queryable, userID, name string) (*model.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE name_key = ? AND (owner_key = ? OR is_default = 1)
		ORDER BY is_default ASC, id ASC
		LIMIT 1`

	cat, err := scanCategory(q.QueryRowContext(ctx, query, model.CategoryKey(name), userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return cat, nil
}

// FindOrCreateCategory returns the visible category named name, creating
// one owned by userID when none exists. The insert is conditional and
// ignores uniqueness conflicts, so concurrent callers converge on one row.
func (s *SQLiteStorage) FindOrCreateCategory(ctx context.Context, userID, name, color string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if color == "" {
		color = model.DefaultCategoryColor
	}

	name = strings.TrimSpace(name)
	key := model.CategoryKey(name)

	var cat *model.Category
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO categories (name, name_key, user_id, owner_key, is_default, color)
			SELECT ?, ?, ?, ?, 0, ?
			WHERE NOT EXISTS (
				SELECT 1 FROM categories
				WHERE name_key = ? AND (owner_key = ? OR is_default = 1)
			)`,
			name, key, userID, userID, color,
			key, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert category: %w", err)
		}

		if n, _ := result.RowsAffected(); n > 0 {
			slog.Info("created new category", "name", name, "user_id", userID)
		}

		cat, err = findCategoryByName(ctx, tx, userID, name)
		if err != nil {
			return err
		}
		if cat == nil {
			return fmt.Errorf("category %q missing after upsert", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cat, nil
}

// ListCategories returns every category visible to userID ordered by name.
func (s *SQLiteStorage) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_key = ? OR is_default = 1
		ORDER BY name_key ASC, is_default ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories), "user_id", userID)
	return categories, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var cat model.Category
	var createdAt sql.NullTime
	if err := row.Scan(&cat.ID, &cat.Name, &cat.UserID, &cat.IsDefault, &cat.Color, &createdAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		cat.CreatedAt = createdAt.Time
	}
	return &cat, nil
}
