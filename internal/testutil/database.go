// Package testutil provides shared helpers for tests that need a database.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/storage"
)

// TestDB represents a migrated test database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory SQLite database with all migrations
// applied, including the default categories. It is closed on test cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustCategory finds or creates a category for userID or fails the test.
func (db *TestDB) MustCategory(userID, name string) model.Category {
	db.t.Helper()

	cat, err := db.Storage.FindOrCreateCategory(context.Background(), userID, name, "")
	if err != nil {
		db.t.Fatalf("failed to create category %q: %v", name, err)
	}
	return *cat
}

// MustListCategories lists the categories visible to userID or fails the test.
func (db *TestDB) MustListCategories(userID string) []model.Category {
	db.t.Helper()

	cats, err := db.Storage.ListCategories(context.Background(), userID)
	if err != nil {
		db.t.Fatalf("failed to list categories: %v", err)
	}
	return cats
}
