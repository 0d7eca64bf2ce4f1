package ingest

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/model"
)

// UnknownReceiptDescription is used when recognized text has no lines.
const UnknownReceiptDescription = "Unknown Receipt"

// Stages recorded in a ReceiptTrace.
const (
	StageDatePattern  = "date-pattern"
	StageToday        = "today"
	StageTotalLine    = "total-line"
	StageLargestPrice = "largest-price"
	StageZeroAmount   = "zero"
	StageFirstLine    = "first-line"
	StagePlaceholder  = "placeholder"
)

var (
	receiptDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4}`)
	// An optional currency glyph, digits with optional comma grouping, exactly two
	// decimals. Letters may follow the decimals, as in "7.49A" or "23.45USD".
	currencyPattern = regexp.MustCompile(`(?:\$|₹|€|£|Rs\.?|INR)?\s?(\d{1,3}(?:,\d{3})+|\d+)\.(\d{2})(?:\D|$)`)
)

// ReceiptTrace records which stage of the extraction ladder supplied each field.
type ReceiptTrace struct {
	Date        string
	Amount      string
	Description string
}

// ReceiptExtractor interprets recognized receipt text.
type ReceiptExtractor struct {
	now func() time.Time
}

// NewReceiptExtractor creates an extractor. A nil clock uses time.Now.
func NewReceiptExtractor(now func() time.Time) *ReceiptExtractor {
	if now == nil {
		now = time.Now
	}
	return &ReceiptExtractor{now: now}
}

// Extract builds an expense draft from recognized text. Every field falls
// back to a default, so extraction itself never fails.
func (e *ReceiptExtractor) Extract(text string) (model.Draft, ReceiptTrace) {
	var trace ReceiptTrace
	lines := SplitLines(text)

	draft := model.Draft{Type: model.TypeExpense}

	if date, ok := FindDate(text); ok {
		draft.Date = model.CalendarDate(date)
		trace.Date = StageDatePattern
	} else {
		draft.Date = model.CalendarDate(e.now())
		trace.Date = StageToday
	}

	if amount, ok := AmountFromTotalLine(lines); ok {
		draft.Amount = amount
		trace.Amount = StageTotalLine
	} else if amount, ok := AmountFromLargestPrice(text); ok {
		draft.Amount = amount
		trace.Amount = StageLargestPrice
	} else {
		draft.Amount = decimal.Zero
		trace.Amount = StageZeroAmount
	}

	if merchant, ok := MerchantFromFirstLine(lines); ok {
		draft.Description = merchant
		trace.Description = StageFirstLine
	} else {
		draft.Description = UnknownReceiptDescription
		trace.Description = StagePlaceholder
	}

	slog.Debug("extracted receipt",
		"date", draft.Date,
		"date_stage", trace.Date,
		"amount", draft.Amount.StringFixed(2),
		"amount_stage", trace.Amount,
		"description_stage", trace.Description)

	return draft, trace
}

// SplitLines returns the trimmed, non-empty lines of text.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// FindDate parses the first date-like token in text. A token that matches
// the pattern but is not a real date is logged and ignored.
func FindDate(text string) (time.Time, bool) {
	token := receiptDatePattern.FindString(text)
	if token == "" {
		return time.Time{}, false
	}

	date, err := model.ParseDate(token)
	if err != nil {
		slog.Warn("ignoring unparseable receipt date", "token", token, "error", err)
		return time.Time{}, false
	}
	return date, true
}

// AmountFromTotalLine reads the first currency token on the first line
// mentioning "total", case-insensitively.
func AmountFromTotalLine(lines []string) (decimal.Decimal, bool) {
	for _, line := range lines {
		if !strings.Contains(strings.ToLower(line), "total") {
			continue
		}
		match := currencyPattern.FindStringSubmatch(line)
		if match == nil {
			return decimal.Zero, false
		}
		return currencyValue(match)
	}
	return decimal.Zero, false
}

// AmountFromLargestPrice returns the largest currency token anywhere in text.
func AmountFromLargestPrice(text string) (decimal.Decimal, bool) {
	var (
		largest decimal.Decimal
		found   bool
	)
	for _, match := range currencyPattern.FindAllStringSubmatch(text, -1) {
		value, ok := currencyValue(match)
		if !ok {
			continue
		}
		if !found || value.GreaterThan(largest) {
			largest = value
			found = true
		}
	}
	return largest, found
}

// MerchantFromFirstLine takes the first line verbatim as the merchant name.
func MerchantFromFirstLine(lines []string) (string, bool) {
	if len(lines) == 0 {
		return "", false
	}
	return lines[0], true
}

func currencyValue(match []string) (decimal.Decimal, bool) {
	value, err := decimal.NewFromString(strings.ReplaceAll(match[1], ",", "") + "." + match[2])
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}
