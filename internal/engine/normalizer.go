package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spendwise/internal/category"
	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

// Normalizer converts drafts into storage-ready transactions. Bulk ingestion
// and manual entry both go through it.
type Normalizer struct {
	resolver *category.Resolver
	now      func() time.Time
}

// NewNormalizer creates a normalizer. A nil clock uses time.Now.
func NewNormalizer(resolver *category.Resolver, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{resolver: resolver, now: now}
}

// Normalize validates the draft, reduces its date to a calendar day, stores
// the amount as a magnitude and resolves its category. The returned
// transaction has no ID.
func (n *Normalizer) Normalize(ctx context.Context, userID string, draft model.Draft) (model.Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Transaction{}, common.NewValidationError("user", "must not be empty")
	}
	if !draft.Type.Valid() {
		return model.Transaction{}, common.NewValidationError("type",
			fmt.Sprintf("%q is not one of %s, %s", draft.Type, model.TypeExpense, model.TypeIncome))
	}

	date, err := n.calendarDate(draft)
	if err != nil {
		return model.Transaction{}, err
	}

	categoryID, err := n.resolver.Resolve(ctx, userID, category.Request{
		ExplicitID:   draft.CategoryID,
		ExplicitName: draft.CategoryName,
		Description:  draft.Description,
	})
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		UserID:      userID,
		Amount:      draft.Amount.Abs(),
		Type:        draft.Type,
		CategoryID:  categoryID,
		Description: strings.TrimSpace(draft.Description),
		Date:        date,
	}, nil
}

func (n *Normalizer) calendarDate(draft model.Draft) (string, error) {
	switch {
	case !draft.HasDate():
		return model.CalendarDate(n.now()), nil
	case !draft.Time.IsZero():
		return model.CalendarDate(draft.Time), nil
	}

	raw := strings.TrimSpace(draft.Date)
	t, err := model.ParseDate(raw)
	if err != nil {
		return "", &common.ParseError{Field: "date", Value: raw, Err: err}
	}
	return model.CalendarDate(t), nil
}
