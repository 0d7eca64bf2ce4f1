package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/spendwise/internal/classification"
	"github.com/Veraticus/spendwise/internal/engine"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		txn      model.Transaction
		expected string
	}{
		{
			name:     "expense is negative",
			txn:      model.Transaction{Amount: decimal.RequireFromString("12.5"), Type: model.TypeExpense},
			expected: "-12.50",
		},
		{
			name:     "income is positive",
			txn:      model.Transaction{Amount: decimal.RequireFromString("3000"), Type: model.TypeIncome},
			expected: "+3000.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAmount(tt.txn))
		})
	}
}

func TestRenderTransactions(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Contains(t, RenderTransactions(nil), "No transactions found.")
	})

	t.Run("rows", func(t *testing.T) {
		out := RenderTransactions([]model.Transaction{
			{
				ID:           "a1",
				Date:         "2024-03-05",
				Description:  "Zomato order",
				CategoryName: "Food",
				Amount:       decimal.RequireFromString("250"),
				Type:         model.TypeExpense,
			},
			{
				ID:          "b2",
				Date:        "2024-03-01",
				Description: "Salary",
				Amount:      decimal.RequireFromString("50000"),
				Type:        model.TypeIncome,
			},
		})

		for _, want := range []string{"Date", "Description", "Zomato order", "Food", "-250.00", "+50000.00", "Uncategorized", "a1", "b2"} {
			assert.Contains(t, out, want)
		}
		assert.Less(t, strings.Index(out, "Zomato order"), strings.Index(out, "Salary"))
	})
}

func TestRenderCategories(t *testing.T) {
	assert.Contains(t, RenderCategories(nil), "No categories yet.")

	out := RenderCategories([]model.Category{
		{ID: 1, Name: "Food", Color: "#10B981", IsDefault: true},
		{ID: 12, Name: "Gifts", Color: "#FFFFFF", UserID: "alice"},
	})
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "(#1, default)")
	assert.Contains(t, out, "(#12, yours)")
}

func TestRenderStats(t *testing.T) {
	out := RenderStats(&service.MonthlyTotals{
		TotalExpenses: decimal.RequireFromString("1200.5"),
		TotalIncome:   decimal.RequireFromString("3000"),
		Month:         3,
		Year:          2024,
	})

	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "1200.50")
	assert.Contains(t, out, "3000.00")
	assert.Contains(t, out, "1799.50")
}

func TestRenderInsights(t *testing.T) {
	assert.Contains(t, RenderInsights(nil), "Nothing to report")

	out := RenderInsights([]engine.Insight{
		{Kind: engine.InsightTrend, Message: "Your spending has increased by 50.0% compared to last month.", Severity: engine.SeverityHigh},
		{Kind: engine.InsightCategory, Message: "Your highest spending category is Food (250.00).", Severity: engine.SeverityInfo},
	})
	assert.Contains(t, out, ErrorIcon+" Your spending has increased by 50.0%")
	assert.Contains(t, out, InfoIcon+" Your highest spending category is Food")
}

func TestFormatHelpers(t *testing.T) {
	tests := []struct {
		name   string
		format func(string) string
		icon   string
	}{
		{name: "success", format: FormatSuccess, icon: SuccessIcon},
		{name: "error", format: FormatError, icon: ErrorIcon},
		{name: "warning", format: FormatWarning, icon: WarningIcon},
		{name: "info", format: FormatInfo, icon: InfoIcon},
		{name: "title", format: FormatTitle, icon: WalletIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("imported 3 transactions")
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "imported 3 transactions")
		})
	}

	box := RenderBox("Summary", "body text")
	assert.Contains(t, box, "Summary")
	assert.Contains(t, box, "body text")
}

func TestRenderRules(t *testing.T) {
	out := RenderRules(classification.NewDefaultClassifier().Rules())

	assert.Contains(t, out, FolderIcon)
	assert.Contains(t, out, "swiggy, zomato, restaurant")
	assert.Contains(t, out, "Anything else: "+model.UncategorizedName)
	assert.Less(t, strings.Index(out, "Food"), strings.Index(out, "Transport"), "rules keep their order")
}

func TestFormatImportedFile(t *testing.T) {
	out := FormatImportedFile("receipt.jpg", 1)
	assert.Contains(t, out, ReceiptIcon)
	assert.Contains(t, out, "receipt.jpg: 1 transaction(s)")
}
