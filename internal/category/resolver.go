// Package category resolves the category a transaction belongs to.
package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spendwise/internal/classification"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

// Request carries the category hints available for one transaction.
type Request struct {
	ExplicitID   *int64
	ExplicitName string
	Description  string
}

// Resolver turns category hints into a category ID, creating categories
// on first reference.
type Resolver struct {
	store      service.CategoryStore
	classifier *classification.Classifier
}

// NewResolver creates a resolver. A nil classifier uses the default rules.
func NewResolver(store service.CategoryStore, classifier *classification.Classifier) *Resolver {
	if classifier == nil {
		classifier = classification.NewDefaultClassifier()
	}
	return &Resolver{store: store, classifier: classifier}
}

// Resolve picks the category in this order: explicit ID (trusted as is),
// explicit name, classification of the description. It returns nil when
// no hint is present.
func (r *Resolver) Resolve(ctx context.Context, userID string, req Request) (*int64, error) {
	if req.ExplicitID != nil {
		id := *req.ExplicitID
		return &id, nil
	}

	if name := strings.TrimSpace(req.ExplicitName); name != "" {
		return r.findOrCreate(ctx, userID, name)
	}

	if strings.TrimSpace(req.Description) != "" {
		match := r.classifier.Classify(req.Description)
		slog.Debug("classified description",
			"description", req.Description,
			"rule", match.Rule,
			"category", match.Category)
		return r.findOrCreate(ctx, userID, match.Category)
	}

	return nil, nil
}

// FindOrCreate returns the category visible to userID named name,
// creating a user-owned one when needed.
func (r *Resolver) FindOrCreate(ctx context.Context, userID, name string) (*model.Category, error) {
	cat, err := r.store.FindOrCreateCategory(ctx, userID, strings.TrimSpace(name), model.DefaultCategoryColor)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category %q: %w", name, err)
	}
	return cat, nil
}

func (r *Resolver) findOrCreate(ctx context.Context, userID, name string) (*int64, error) {
	cat, err := r.FindOrCreate(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	id := cat.ID
	return &id, nil
}
