package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spendwise/internal/model"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

// DefaultCategory is a shared category seeded into every database.
type DefaultCategory struct {
	Name  string
	Color string
}

// DefaultCategories are visible to every user.
var DefaultCategories = []DefaultCategory{
	{Name: "Food", Color: "#10B981"},
	{Name: "Transport", Color: "#F59E0B"},
	{Name: "Housing", Color: "#EF4444"},
	{Name: "Entertainment", Color: "#8B5CF6"},
	{Name: "Utilities", Color: "#3B82F6"},
	{Name: "Health", Color: "#EC4899"},
	{Name: "Shopping", Color: "#F472B6"},
	{Name: "Investments", Color: "#D4AF37"},
	{Name: "Other", Color: "#9CA3AF"},
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				// owner_key is user_id, or '' for defaults, so that the unique
				// index below also covers shared categories.
				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					name_key TEXT NOT NULL,
					user_id TEXT,
					owner_key TEXT NOT NULL DEFAULT '',
					is_default BOOLEAN NOT NULL DEFAULT 0,
					color TEXT NOT NULL DEFAULT '#FFFFFF',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE UNIQUE INDEX idx_categories_scope ON categories(name_key, owner_key)`,
				`CREATE INDEX idx_categories_default ON categories(is_default)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					amount REAL NOT NULL CHECK (amount >= 0),
					type TEXT NOT NULL CHECK (type IN ('expense', 'income')),
					category_id INTEGER REFERENCES categories(id),
					description TEXT NOT NULL DEFAULT '',
					date TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_user_date ON transactions(user_id, date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Seed default categories",
		Up: func(tx *sql.Tx) error {
			stmt, err := tx.Prepare(`
				INSERT INTO categories (name, name_key, user_id, owner_key, is_default, color)
				VALUES (?, ?, NULL, '', 1, ?)
				ON CONFLICT (name_key, owner_key) DO UPDATE SET color = excluded.color`)
			if err != nil {
				return fmt.Errorf("failed to prepare seed statement: %w", err)
			}
			defer func() { _ = stmt.Close() }()

			for _, cat := range DefaultCategories {
				if _, err := stmt.Exec(cat.Name, model.CategoryKey(cat.Name), cat.Color); err != nil {
					return fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index transactions by category",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id)`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion reports the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
