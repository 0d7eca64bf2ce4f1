package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/spendwise/internal/classification"
	"github.com/Veraticus/spendwise/internal/engine"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

const uncategorizedLabel = "Uncategorized"

// FormatAmount renders a signed two-decimal amount: expenses are negative.
func FormatAmount(txn model.Transaction) string {
	amount := txn.Amount.StringFixed(2)
	if txn.Type == model.TypeIncome {
		return "+" + amount
	}
	return "-" + amount
}

// RenderTransactions renders transactions as an aligned table.
func RenderTransactions(txns []model.Transaction) string {
	if len(txns) == 0 {
		return SubtleStyle.Render("No transactions found.")
	}

	headers := []string{"Date", "Description", "Category", "Amount", "ID"}
	rows := make([][]string, 0, len(txns))
	for _, txn := range txns {
		category := txn.CategoryName
		if category == "" {
			category = uncategorizedLabel
		}
		rows = append(rows, []string{txn.Date, txn.Description, category, FormatAmount(txn), txn.ID})
	}

	widths := columnWidths(headers, rows)
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(joinCells(headers, widths)))
	b.WriteString("\n")
	for i, row := range rows {
		line := joinCells(row, widths)
		if txns[i].Type == model.TypeIncome {
			b.WriteString(IncomeStyle.Render(line))
		} else {
			b.WriteString(ExpenseStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderCategories renders the categories visible to a user.
func RenderCategories(categories []model.Category) string {
	if len(categories) == 0 {
		return SubtleStyle.Render("No categories yet.")
	}

	var b strings.Builder
	for _, c := range categories {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
		owner := "yours"
		if c.IsDefault {
			owner = "default"
		}
		fmt.Fprintf(&b, "%s %s %s\n", swatch, TableCellStyle.Render(c.Name), SubtleStyle.Render(fmt.Sprintf("(#%d, %s)", c.ID, owner)))
	}
	return b.String()
}

// RenderRules lists keyword rules in evaluation order.
func RenderRules(rules []classification.Rule) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(FolderIcon + " Classification rules (first match wins)"))
	b.WriteString("\n")
	for i, r := range rules {
		fmt.Fprintf(&b, "%2d. %s %s\n", i+1, TableCellStyle.Render(r.Category), SubtleStyle.Render(strings.Join(r.Keywords, ", ")))
	}
	b.WriteString(SubtleStyle.Render("Anything else: " + model.UncategorizedName))
	b.WriteString("\n")
	return b.String()
}

// FormatImportedFile summarizes one imported file.
func FormatImportedFile(path string, count int) string {
	return InfoStyle.Render(fmt.Sprintf("%s %s: %d transaction(s)", ReceiptIcon, path, count))
}

// RenderStats renders one month of totals in a box.
func RenderStats(totals *service.MonthlyTotals) string {
	title := fmt.Sprintf("%s %s %d", ChartIcon, time.Month(totals.Month), totals.Year)
	net := totals.TotalIncome.Sub(totals.TotalExpenses)
	content := lipgloss.JoinVertical(lipgloss.Left,
		"Expenses: "+ExpenseStyle.Render(totals.TotalExpenses.StringFixed(2)),
		"Income:   "+IncomeStyle.Render(totals.TotalIncome.StringFixed(2)),
		"Net:      "+net.StringFixed(2),
	)
	return RenderBox(title, content)
}

// RenderInsights renders insights, colored by severity.
func RenderInsights(insights []engine.Insight) string {
	if len(insights) == 0 {
		return SubtleStyle.Render("Nothing to report for this month.")
	}

	var b strings.Builder
	for _, in := range insights {
		line := in.Message
		switch in.Severity {
		case engine.SeverityHigh:
			b.WriteString(FormatError(line))
		case engine.SeverityMedium:
			b.WriteString(FormatWarning(line))
		default:
			b.WriteString(FormatInfo(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func joinCells(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
	}
	return strings.TrimRight(strings.Join(padded, "  "), " ")
}
