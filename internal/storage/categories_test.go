package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Veraticus/spendwise/internal/model"
)

func TestFindOrCreateCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name        string
		userID      string
		category    string
		color       string
		wantName    string
		wantColor   string
		wantDefault bool
	}{
		{
			name:        "default category matches case-insensitively",
			userID:      "alice",
			category:    "FOOD",
			wantName:    "Food",
			wantColor:   "#10B981",
			wantDefault: true,
		},
		{
			name:      "new category uses the default color",
			userID:    "alice",
			category:  "  Gifts ",
			wantName:  "Gifts",
			wantColor: model.DefaultCategoryColor,
		},
		{
			name:      "existing user category is reused",
			userID:    "alice",
			category:  "gifts",
			color:     "#000000",
			wantName:  "Gifts",
			wantColor: model.DefaultCategoryColor,
		},
		{
			name:      "explicit color",
			userID:    "bob",
			category:  "Gifts",
			color:     "#123456",
			wantName:  "Gifts",
			wantColor: "#123456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := store.FindOrCreateCategory(ctx, tt.userID, tt.category, tt.color)
			if err != nil {
				t.Fatalf("FindOrCreateCategory() error = %v", err)
			}
			if cat.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", cat.Name, tt.wantName)
			}
			if cat.Color != tt.wantColor {
				t.Errorf("Color = %q, want %q", cat.Color, tt.wantColor)
			}
			if cat.IsDefault != tt.wantDefault {
				t.Errorf("IsDefault = %v, want %v", cat.IsDefault, tt.wantDefault)
			}
			if !tt.wantDefault && cat.UserID != tt.userID {
				t.Errorf("UserID = %q, want %q", cat.UserID, tt.userID)
			}
		})
	}

	alice, err := store.FindCategoryByName(ctx, "alice", "gifts")
	if err != nil {
		t.Fatalf("FindCategoryByName() error = %v", err)
	}
	bob, err := store.FindCategoryByName(ctx, "bob", "gifts")
	if err != nil {
		t.Fatalf("FindCategoryByName() error = %v", err)
	}
	if alice.ID == bob.ID {
		t.Errorf("users share a private category id %d", alice.ID)
	}
}

func TestFindCategoryByName(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.db.Exec(`
		INSERT INTO categories (name, name_key, user_id, owner_key, is_default, color)
		VALUES ('food', 'food', 'carol', 'carol', 0, '#111111')`); err != nil {
		t.Fatalf("Failed to insert shadowing category: %v", err)
	}

	tests := []struct {
		name        string
		userID      string
		category    string
		wantNil     bool
		wantDefault bool
	}{
		{name: "missing", userID: "alice", category: "Travel", wantNil: true},
		{name: "default", userID: "alice", category: "food", wantDefault: true},
		{name: "own category wins over default", userID: "carol", category: "FOOD", wantDefault: false},
		{name: "other users' categories are invisible", userID: "dave", category: "Food", wantDefault: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := store.FindCategoryByName(ctx, tt.userID, tt.category)
			if err != nil {
				t.Fatalf("FindCategoryByName() error = %v", err)
			}
			if tt.wantNil {
				if cat != nil {
					t.Errorf("FindCategoryByName() = %+v, want nil", cat)
				}
				return
			}
			if cat == nil {
				t.Fatal("FindCategoryByName() = nil")
			}
			if cat.IsDefault != tt.wantDefault {
				t.Errorf("IsDefault = %v, want %v", cat.IsDefault, tt.wantDefault)
			}
		})
	}
}

func TestFindOrCreateCategory_Concurrent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	names := []string{"Travel", "travel", "TRAVEL", " Travel "}
	ids := make([]int64, 16)
	errs := make([]error, 16)

	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cat, err := store.FindOrCreateCategory(ctx, "alice", names[i%len(names)], "")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = cat.ID
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("goroutine %d: %v", i, err)
		}
		if ids[i] != ids[0] {
			t.Errorf("goroutine %d got id %d, want %d", i, ids[i], ids[0])
		}
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE name_key = 'travel'`).Scan(&count); err != nil {
		t.Fatalf("count query: %v", err)
	}
	if count != 1 {
		t.Errorf("found %d travel categories, want 1", count)
	}
}

func TestListCategories(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"Zoo", "Books"} {
		if _, err := store.FindOrCreateCategory(ctx, "alice", name, ""); err != nil {
			t.Fatalf("FindOrCreateCategory(%q) error = %v", name, err)
		}
	}
	if _, err := store.FindOrCreateCategory(ctx, "bob", "Secret", ""); err != nil {
		t.Fatalf("FindOrCreateCategory() error = %v", err)
	}

	categories, err := store.ListCategories(ctx, "alice")
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != len(DefaultCategories)+2 {
		t.Fatalf("got %d categories, want %d", len(categories), len(DefaultCategories)+2)
	}
	for i := 1; i < len(categories); i++ {
		if model.CategoryKey(categories[i-1].Name) > model.CategoryKey(categories[i].Name) {
			t.Errorf("categories not ordered by name: %q before %q", categories[i-1].Name, categories[i].Name)
		}
	}
	for _, cat := range categories {
		if cat.Name == "Secret" {
			t.Error("alice can see bob's category")
		}
	}
}

func TestCategoryValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.FindOrCreateCategory(ctx, "", "Food", ""); !errors.Is(err, ErrEmptyString) {
		t.Errorf("empty user: error = %v, want ErrEmptyString", err)
	}
	if _, err := store.FindOrCreateCategory(ctx, "alice", " ", ""); !errors.Is(err, ErrEmptyString) {
		t.Errorf("empty name: error = %v, want ErrEmptyString", err)
	}
	//nolint:staticcheck // nil context is the case under test
	if _, err := store.ListCategories(nil, "alice"); !errors.Is(err, ErrNilContext) {
		t.Errorf("nil context: error = %v, want ErrNilContext", err)
	}
}
