package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/config"
	"github.com/Veraticus/spendwise/internal/engine"
	"github.com/Veraticus/spendwise/internal/ingest"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/ocr"
	"github.com/Veraticus/spendwise/internal/storage"
)

// app bundles what every data command needs.
type app struct {
	store  *storage.SQLiteStorage
	engine *engine.Engine
	cfg    config.Config
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

// openStorage opens the configured database without migrating it.
func openStorage(cfg config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.DatabasePath, err)
	}
	return store, nil
}

// initApp loads configuration, opens and migrates storage and wires the engine.
// The recognizer is only built when withRecognizer is set, so commands that
// never read receipts do not need OCR credentials.
func initApp(ctx context.Context, withRecognizer bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var recognizer ocr.Recognizer
	if withRecognizer {
		recognizer, err = newRecognizer(ctx, cfg.OCR)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	engineConfig := engine.DefaultConfig()
	engineConfig.KeepUploads = cfg.KeepUploads

	return &app{
		store:  store,
		engine: engine.NewWithConfig(store, recognizer, engineConfig),
		cfg:    cfg,
	}, nil
}

func newRecognizer(ctx context.Context, cfg config.OCRConfig) (ocr.Recognizer, error) {
	switch cfg.Engine {
	case ocr.EngineTesseract:
		return ocr.NewTesseractRecognizer(cfg.TesseractPath), nil
	case ocr.EngineGemini:
		if cfg.APIKey == "" {
			slog.Warn("No Gemini API key configured; receipt images will fail to import",
				"hint", "set SPENDWISE_OCR_API_KEY or GEMINI_API_KEY, or use ocr.engine=tesseract")
			return nil, nil
		}
		return ocr.NewGeminiRecognizer(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", cfg.Engine)
	}
}

// draftFlags are the fields shared by add and update.
type draftFlags struct {
	amount      string
	txnType     string
	date        string
	description string
	category    string
	categoryID  int64
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "Amount; the sign is ignored")
	cmd.Flags().StringVarP(&f.txnType, "type", "t", string(model.TypeExpense), "Transaction type (expense or income)")
	cmd.Flags().StringVar(&f.date, "date", "", "Date, e.g. 2024-03-05 (default: today)")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category name; created if it does not exist")
	cmd.Flags().Int64Var(&f.categoryID, "category-id", 0, "Category ID")
}

func (f *draftFlags) draft() (model.Draft, error) {
	amount, err := ingest.ParseAmount(f.amount)
	if err != nil {
		return model.Draft{}, fmt.Errorf("invalid --amount: %w", err)
	}

	txnType := model.TypeExpense
	if f.txnType != "" {
		txnType, err = model.ParseTransactionType(f.txnType)
		if err != nil {
			return model.Draft{}, fmt.Errorf("invalid --type: %w", err)
		}
	}

	draft := model.Draft{
		Amount:       amount.Abs(),
		Type:         txnType,
		Date:         f.date,
		Description:  f.description,
		CategoryName: f.category,
	}
	if f.categoryID > 0 {
		id := f.categoryID
		draft.CategoryID = &id
	}
	return draft, nil
}

// monthFlags selects a calendar month, defaulting to the current one.
type monthFlags struct {
	month int
	year  int
}

func (f *monthFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.month, "month", 0, "Month 1-12 (default: current month)")
	cmd.Flags().IntVar(&f.year, "year", 0, "Year (default: current year)")
}

func (f *monthFlags) resolve(now time.Time) (int, int, error) {
	month, year := f.month, f.year
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid --month %d: must be between 1 and 12", month)
	}
	return month, year, nil
}
