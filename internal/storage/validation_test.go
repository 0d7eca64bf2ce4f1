package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		wantErr bool
	}{
		{name: "valid string", str: "test"},
		{name: "empty string", str: "", wantErr: true},
		{name: "whitespace only", str: " \t\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, "param")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrEmptyString) {
				t.Errorf("validateString() error = %v, want ErrEmptyString", err)
			}
		})
	}
}

func TestValidateTransaction(t *testing.T) {
	valid := func() *model.Transaction {
		return newTestTransaction("t1", "alice", "2024-03-05", "Lunch", "12.50", model.TypeExpense)
	}

	tests := []struct {
		txn     *model.Transaction
		wantErr error
		name    string
	}{
		{name: "valid", txn: valid()},
		{name: "nil", txn: nil, wantErr: ErrNilParameter},
		{name: "missing id", txn: func() *model.Transaction { txn := valid(); txn.ID = ""; return txn }(), wantErr: ErrInvalidTransaction},
		{name: "missing user", txn: func() *model.Transaction { txn := valid(); txn.UserID = ""; return txn }(), wantErr: ErrInvalidTransaction},
		{name: "negative amount", txn: func() *model.Transaction { txn := valid(); txn.Amount = decimal.NewFromInt(-1); return txn }(), wantErr: ErrInvalidTransaction},
		{name: "bad type", txn: func() *model.Transaction { txn := valid(); txn.Type = "refund"; return txn }(), wantErr: ErrInvalidTransaction},
		{name: "non canonical date", txn: func() *model.Transaction { txn := valid(); txn.Date = "3/5/2024"; return txn }(), wantErr: ErrInvalidTransaction},
		{name: "empty date", txn: func() *model.Transaction { txn := valid(); txn.Date = ""; return txn }(), wantErr: ErrInvalidTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTransaction(tt.txn)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateTransaction() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateTransaction() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
