package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

// Insight severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
	SeverityInfo   = "info"
)

// Insight kinds.
const (
	InsightTrend    = "trend"
	InsightCategory = "category"
)

// trendAlertPercent is the month-over-month spending increase reported as high severity.
var trendAlertPercent = decimal.NewFromInt(20)

// Insight is one observation about a month of spending.
type Insight struct {
	Kind      string
	Message   string
	Highlight string
	Severity  string
}

// ListTransactions returns the user's transactions, newest first.
func (e *Engine) ListTransactions(ctx context.Context, userID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	return e.storage.ListTransactions(ctx, userID, filter)
}

// ListCategories returns the categories visible to userID.
func (e *Engine) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	return e.storage.ListCategories(ctx, userID)
}

// CreateCategory finds or creates a category by name.
func (e *Engine) CreateCategory(ctx context.Context, userID, name string) (*model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.NewValidationError("category", "name must not be empty")
	}
	return e.resolver.FindOrCreate(ctx, userID, name)
}

// Recategorize moves every transaction whose description contains keyword
// into the named category and returns how many moved.
func (e *Engine) Recategorize(ctx context.Context, userID, keyword, categoryName string) (int, error) {
	if strings.TrimSpace(keyword) == "" {
		return 0, common.NewValidationError("keyword", "must not be empty")
	}

	cat, err := e.CreateCategory(ctx, userID, categoryName)
	if err != nil {
		return 0, err
	}

	moved, err := e.storage.SetTransactionCategory(ctx, userID, strings.TrimSpace(keyword), cat.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to recategorize transactions: %w", err)
	}
	return moved, nil
}

// MonthlyStats totals a user's expenses and income for one month.
func (e *Engine) MonthlyStats(ctx context.Context, userID string, month, year int) (*service.MonthlyTotals, error) {
	return e.storage.MonthlyTotals(ctx, userID, month, year)
}

// MonthlyInsights compares the month's spending with the previous month and
// names the largest expense category.
func (e *Engine) MonthlyInsights(ctx context.Context, userID string, month, year int) ([]Insight, error) {
	current, err := e.storage.MonthlyTotals(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}

	prevMonth, prevYear := month-1, year
	if prevMonth == 0 {
		prevMonth, prevYear = 12, year-1
	}
	previous, err := e.storage.MonthlyTotals(ctx, userID, prevMonth, prevYear)
	if err != nil {
		return nil, err
	}

	insights := []Insight{trendInsight(current.TotalExpenses, previous.TotalExpenses)}

	top, err := e.storage.TopExpenseCategory(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	if top != nil {
		insights = append(insights, Insight{
			Kind:      InsightCategory,
			Message:   fmt.Sprintf("Your highest spending category is %s (%s).", top.Name, top.Amount.StringFixed(2)),
			Highlight: top.Name,
			Severity:  SeverityInfo,
		})
	}
	return insights, nil
}

func trendInsight(current, previous decimal.Decimal) Insight {
	if !previous.IsPositive() {
		return Insight{
			Kind:     InsightTrend,
			Message:  "Keep tracking to compare with last month's data.",
			Severity: SeverityLow,
		}
	}

	change := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
	direction := "decreased"
	if change.IsPositive() {
		direction = "increased"
	}
	severity := SeverityMedium
	if change.GreaterThan(trendAlertPercent) {
		severity = SeverityHigh
	}

	highlight := change.Abs().StringFixed(1) + "%"
	return Insight{
		Kind:      InsightTrend,
		Message:   fmt.Sprintf("Your spending has %s by %s compared to last month.", direction, highlight),
		Highlight: highlight,
		Severity:  severity,
	}
}
