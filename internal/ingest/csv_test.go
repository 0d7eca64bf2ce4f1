package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

func collectDrafts(t *testing.T, input string) ([]model.Draft, error) {
	t.Helper()
	var drafts []model.Draft
	for draft, err := range NewCSVIngestor().Drafts(strings.NewReader(input)) {
		if err != nil {
			return drafts, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

func TestCSVIngestorDrafts(t *testing.T) {
	input := "Date,Description,Amount,Type\n" +
		"2024-03-01,Swiggy dinner,450.50,Expense\n" +
		"2024-03-02,Salary,\"50,000.00\",INCOME\n" +
		"2024-03-03,Refund,-20,expense\n"

	drafts, err := collectDrafts(t, input)
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, "2024-03-01", drafts[0].Date)
	assert.Equal(t, "Swiggy dinner", drafts[0].Description)
	assert.True(t, decimal.RequireFromString("450.50").Equal(drafts[0].Amount))
	assert.Equal(t, model.TypeExpense, drafts[0].Type)

	assert.Equal(t, "Salary", drafts[1].Description)
	assert.True(t, decimal.RequireFromString("50000").Equal(drafts[1].Amount))
	assert.Equal(t, model.TypeIncome, drafts[1].Type)

	assert.True(t, decimal.NewFromInt(20).Equal(drafts[2].Amount), "sign is dropped")
	assert.Equal(t, model.TypeExpense, drafts[2].Type)

	for _, d := range drafts {
		assert.Empty(t, d.CategoryName)
		assert.Nil(t, d.CategoryID)
	}
}

func TestCSVIngestorInfersTypeFromSign(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		amount string
		want   model.TransactionType
	}{
		{
			name:   "negative without type column",
			input:  "Description,Amount\nCoffee,-3.25\n",
			amount: "3.25",
			want:   model.TypeExpense,
		},
		{
			name:   "positive without type column",
			input:  "Description,Amount\nRefund,12\n",
			amount: "12",
			want:   model.TypeIncome,
		},
		{
			name:   "zero is income",
			input:  "Description,Amount\nAdjustment,0.00\n",
			amount: "0",
			want:   model.TypeIncome,
		},
		{
			name:   "blank type value",
			input:  "Description,Amount,Type\nCoffee,-3.25,\n",
			amount: "3.25",
			want:   model.TypeExpense,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := collectDrafts(t, tt.input)
			require.NoError(t, err)
			require.Len(t, drafts, 1)
			assert.Equal(t, tt.want, drafts[0].Type)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(drafts[0].Amount))
			assert.Empty(t, drafts[0].Date, "missing date is left for the normalizer")
		})
	}
}

func TestCSVIngestorColumnsByName(t *testing.T) {
	input := "Amount,Notes,Description,Date\n" +
		"-5.00,ignored,Uber ride,03/04/2024\n" +
		"-7.00\n"

	drafts, err := collectDrafts(t, input)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "Uber ride", drafts[0].Description)
	assert.Equal(t, "03/04/2024", drafts[0].Date)
	assert.Empty(t, drafts[1].Description, "short rows leave fields empty")
}

func TestCSVIngestorHeaderIsCaseSensitive(t *testing.T) {
	_, err := collectDrafts(t, "date,description,amount\n2024-01-01,Tea,-1.00\n")

	var parseErr *common.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, ColumnAmount, parseErr.Field)
	assert.Equal(t, 1, parseErr.Row)
}

func TestCSVIngestorStopsAtFirstBadRow(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantField string
		wantRow   int
		wantValue string
		goodRows  int
	}{
		{
			name:      "unparseable amount",
			input:     "Description,Amount\nA,1.00\nB,abc\nC,2.00\n",
			wantField: ColumnAmount,
			wantRow:   2,
			wantValue: "abc",
			goodRows:  1,
		},
		{
			name:      "empty amount",
			input:     "Description,Amount\nA,\n",
			wantField: ColumnAmount,
			wantRow:   1,
			goodRows:  0,
		},
		{
			name:      "unknown type",
			input:     "Description,Amount,Type\nA,1.00,expense\nB,2.00,transfer\n",
			wantField: ColumnType,
			wantRow:   2,
			wantValue: "transfer",
			goodRows:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := collectDrafts(t, tt.input)

			var parseErr *common.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.wantField, parseErr.Field)
			assert.Equal(t, tt.wantRow, parseErr.Row)
			assert.Equal(t, tt.wantValue, parseErr.Value)
			assert.Len(t, drafts, tt.goodRows)
		})
	}
}

func TestCSVIngestorEarlyBreak(t *testing.T) {
	input := "Description,Amount\nA,1\nB,2\nC,oops\n"

	count := 0
	for _, err := range NewCSVIngestor().Drafts(strings.NewReader(input)) {
		require.NoError(t, err)
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestCSVIngestorEmptyInput(t *testing.T) {
	drafts, err := collectDrafts(t, "")
	require.NoError(t, err)
	assert.Empty(t, drafts)

	drafts, err = collectDrafts(t, "Date,Description,Amount,Type\n")
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestCSVIngestorMalformedQuoting(t *testing.T) {
	_, err := collectDrafts(t, "Description,Amount\n\"unterminated,1.00\n")
	require.Error(t, err)

	var parseErr *common.ParseError
	assert.False(t, errors.As(err, &parseErr))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "12.34", want: "12.34"},
		{input: " -1,234.50 ", want: "-1234.5"},
		{input: "1 000", want: "1000"},
		{input: "", wantErr: true},
		{input: "12.3.4", wantErr: true},
		{input: "$5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}
