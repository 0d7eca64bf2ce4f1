package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// DefaultCategoryColor is assigned to categories created on first reference.
const DefaultCategoryColor = "#FFFFFF"

// UncategorizedName is the category the classifier falls back to.
const UncategorizedName = "Uncategorized"

// Category groups transactions for reporting. Categories without an owner
// are defaults shared by every user.
type Category struct {
	CreatedAt time.Time
	Name      string
	UserID    string // empty for default categories
	Color     string
	ID        int64
	IsDefault bool
}

// VisibleTo reports whether userID may resolve this category.
func (c Category) VisibleTo(userID string) bool {
	return c.IsDefault || (c.UserID != "" && c.UserID == userID)
}

// CategoryKey returns the case-insensitive lookup key for a category name.
// Two names that differ only by case produce the same key.
func CategoryKey(name string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(name))
}
