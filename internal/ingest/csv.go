// Package ingest turns external inputs (delimited files, recognized receipt
// text, OFX statements) into draft transactions.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

// Column names read by CSVIngestor. Matching is case-sensitive.
const (
	ColumnDate        = "Date"
	ColumnDescription = "Description"
	ColumnAmount      = "Amount"
	ColumnType        = "Type"
)

// CSVIngestor reads header-keyed rows into drafts.
type CSVIngestor struct{}

// NewCSVIngestor creates a CSV ingestor.
func NewCSVIngestor() *CSVIngestor {
	return &CSVIngestor{}
}

// Drafts lazily yields one draft per data row in input order. Iteration
// stops after the first error, which is yielded with a zero draft.
func (c *CSVIngestor) Drafts(r io.Reader) iter.Seq2[model.Draft, error] {
	return func(yield func(model.Draft, error) bool) {
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true

		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(model.Draft{}, fmt.Errorf("failed to read CSV header: %w", err))
			return
		}
		columns := indexColumns(header)

		for row := 1; ; row++ {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(model.Draft{}, fmt.Errorf("failed to read CSV row %d: %w", row, err))
				return
			}

			draft, err := draftFromRecord(columns, record, row)
			if err != nil {
				yield(model.Draft{}, err)
				return
			}
			if !yield(draft, nil) {
				return
			}
		}
	}
}

type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	columns := make(columnIndex, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}
	return columns
}

// field returns the named value, or "" when the column is absent or the row is short.
func (c columnIndex) field(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func draftFromRecord(columns columnIndex, record []string, row int) (model.Draft, error) {
	rawAmount := columns.field(record, ColumnAmount)
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return model.Draft{}, &common.ParseError{Field: ColumnAmount, Value: rawAmount, Row: row, Err: err}
	}

	txnType := model.TypeForSignedAmount(amount)
	if rawType := columns.field(record, ColumnType); rawType != "" {
		txnType, err = model.ParseTransactionType(rawType)
		if err != nil {
			return model.Draft{}, &common.ParseError{Field: ColumnType, Value: rawType, Row: row, Err: err}
		}
	}

	date := columns.field(record, ColumnDate)
	description := columns.field(record, ColumnDescription)

	return model.Draft{
		Date:        date,
		Description: description,
		Amount:      amount.Abs(),
		Type:        txnType,
	}, nil
}

// ParseAmount parses a signed decimal amount, ignoring digit-group commas.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	return decimal.NewFromString(cleaned)
}
