// Package engine drives ingestion: it dispatches uploads to the matching
// ingestor, normalizes every draft and persists the results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Veraticus/spendwise/internal/category"
	"github.com/Veraticus/spendwise/internal/classification"
	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/ingest"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/ocr"
	"github.com/Veraticus/spendwise/internal/service"
)

// InputKind selects the ingestor for an upload.
type InputKind string

// Supported input kinds.
const (
	KindCSV   InputKind = "csv"
	KindImage InputKind = "image"
	KindOFX   InputKind = "ofx"
)

var contentTypeKinds = map[string]InputKind{
	"text/csv":                 KindCSV,
	"application/vnd.ms-excel": KindCSV,
	"application/x-ofx":        KindOFX,
	"application/vnd.intu.qfx": KindOFX,
}

var extensionKinds = map[string]InputKind{
	".csv": KindCSV,
	".ofx": KindOFX,
	".qfx": KindOFX,
}

// Config holds configuration options for the engine.
type Config struct {
	Now         func() time.Time
	Classifier  *classification.Classifier
	KeepUploads bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Now: time.Now}
}

// IngestResult is the outcome of a successful bulk ingestion.
type IngestResult struct {
	Transactions []model.Transaction
	Count        int
}

// Engine is the entry point for adding, changing and importing transactions.
type Engine struct {
	storage     service.Storage
	recognizer  ocr.Recognizer
	resolver    *category.Resolver
	normalizer  *Normalizer
	csv         *ingest.CSVIngestor
	ofx         *ingest.OFXIngestor
	receipts    *ingest.ReceiptExtractor
	keepUploads bool
}

// New creates an engine with the default configuration. The recognizer is
// only used for image uploads and may be nil when none are expected.
func New(storage service.Storage, recognizer ocr.Recognizer) *Engine {
	return NewWithConfig(storage, recognizer, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(storage service.Storage, recognizer ocr.Recognizer, config Config) *Engine {
	if config.Now == nil {
		config.Now = time.Now
	}
	resolver := category.NewResolver(storage, config.Classifier)
	return &Engine{
		storage:     storage,
		recognizer:  recognizer,
		resolver:    resolver,
		normalizer:  NewNormalizer(resolver, config.Now),
		csv:         ingest.NewCSVIngestor(),
		ofx:         ingest.NewOFXIngestor(),
		receipts:    ingest.NewReceiptExtractor(config.Now),
		keepUploads: config.KeepUploads,
	}
}

// AddTransaction normalizes and stores a single manually entered draft.
func (e *Engine) AddTransaction(ctx context.Context, userID string, draft model.Draft) (*model.Transaction, error) {
	txn, err := e.normalizer.Normalize(ctx, userID, draft)
	if err != nil {
		return nil, err
	}

	txn.ID = uuid.NewString()
	if err := e.storage.InsertTransaction(ctx, &txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	slog.Debug("added transaction", "id", txn.ID, "user", userID, "category_id", txn.CategoryID)
	return &txn, nil
}

// UpdateTransaction replaces every field of the transaction id owned by
// userID. It returns common.ErrNotFound when no such transaction exists.
func (e *Engine) UpdateTransaction(ctx context.Context, id, userID string, draft model.Draft) (*model.Transaction, error) {
	txn, err := e.normalizer.Normalize(ctx, userID, draft)
	if err != nil {
		return nil, err
	}

	txn.ID = id
	if err := e.storage.UpdateTransaction(ctx, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransaction removes the transaction id owned by userID.
func (e *Engine) DeleteTransaction(ctx context.Context, id, userID string) error {
	return e.storage.DeleteTransaction(ctx, id, userID)
}

// IngestBulk imports every record in the upload. Either all records are
// stored or none are; after a full success the upload file is removed
// unless the engine keeps uploads.
func (e *Engine) IngestBulk(ctx context.Context, userID string, upload model.Upload) (*IngestResult, error) {
	kind, err := DetectInputKind(upload)
	if err != nil {
		return nil, err
	}

	logFields := common.Fields{"path": upload.Path, "kind": string(kind), "user": userID}

	drafts, err := e.draftsFor(ctx, kind, upload.Path)
	if err != nil {
		common.LogError(ctx, err, "failed to read upload", logFields)
		return nil, err
	}

	transactions, err := e.persistAll(ctx, userID, drafts)
	if err != nil {
		common.LogError(ctx, err, "failed to import upload", logFields)
		return nil, err
	}

	if !e.keepUploads {
		if err := os.Remove(upload.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove upload", "path", upload.Path, "error", err)
		}
	}

	slog.Info("imported upload", "path", upload.Path, "kind", kind, "count", len(transactions))
	return &IngestResult{Count: len(transactions), Transactions: transactions}, nil
}

func (e *Engine) draftsFor(ctx context.Context, kind InputKind, path string) ([]model.Draft, error) {
	switch kind {
	case KindImage:
		draft, err := e.receiptDraft(ctx, path)
		if err != nil {
			return nil, err
		}
		return []model.Draft{draft}, nil
	case KindCSV, KindOFX:
	default:
		return nil, &common.UnsupportedInputKindError{ContentType: string(kind)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("failed to close upload", "path", path, "error", cerr)
		}
	}()

	if kind == KindOFX {
		return e.ofx.Drafts(f)
	}

	var drafts []model.Draft
	for draft, err := range e.csv.Drafts(f) {
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

func (e *Engine) receiptDraft(ctx context.Context, path string) (model.Draft, error) {
	if e.recognizer == nil {
		return model.Draft{}, &common.ExtractionError{
			Path:  path,
			Stage: ocr.StageRecognize,
			Err:   errors.New("no text recognizer configured"),
		}
	}

	text, err := e.recognizer.Recognize(ctx, path)
	if err != nil {
		var extractionErr *common.ExtractionError
		if !errors.As(err, &extractionErr) {
			err = &common.ExtractionError{Path: path, Stage: ocr.StageRecognize, Err: err}
		}
		return model.Draft{}, err
	}

	draft, trace := e.receipts.Extract(text)
	slog.Debug("receipt fields", "path", path, "date", trace.Date, "amount", trace.Amount, "description", trace.Description)
	return draft, nil
}

// persistAll normalizes and stores drafts one at a time so that categories
// created by earlier drafts are visible to later ones. On failure the
// transactions already stored by this call are removed again.
func (e *Engine) persistAll(ctx context.Context, userID string, drafts []model.Draft) ([]model.Transaction, error) {
	transactions := make([]model.Transaction, 0, len(drafts))
	for i, draft := range drafts {
		if err := ctx.Err(); err != nil {
			e.discard(userID, transactions)
			return nil, err
		}

		txn, err := e.AddTransaction(ctx, userID, draft)
		if err != nil {
			e.discard(userID, transactions)
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		transactions = append(transactions, *txn)
	}
	return transactions, nil
}

func (e *Engine) discard(userID string, transactions []model.Transaction) {
	ctx := context.Background()
	for _, txn := range transactions {
		if err := e.storage.DeleteTransaction(ctx, txn.ID, userID); err != nil {
			slog.Warn("failed to discard partial import", "id", txn.ID, "error", err)
		}
	}
}

// DetectInputKind maps the upload's declared content type to an input kind.
// An empty content type is sniffed from the file contents, falling back to
// the file extension for formats without a magic number.
func DetectInputKind(upload model.Upload) (InputKind, error) {
	declared := strings.TrimSpace(upload.ContentType)
	if declared != "" {
		if kind, ok := kindForContentType(declared); ok {
			return kind, nil
		}
		return "", &common.UnsupportedInputKindError{ContentType: declared}
	}

	detected, err := mimetype.DetectFile(upload.Path)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type: %w", err)
	}
	if kind, ok := kindForContentType(detected.String()); ok {
		return kind, nil
	}
	if detected.Is("text/plain") || detected.Is("text/xml") || detected.Is("application/xml") {
		if kind, ok := extensionKinds[strings.ToLower(filepath.Ext(upload.Path))]; ok {
			return kind, nil
		}
	}
	return "", &common.UnsupportedInputKindError{ContentType: detected.String()}
}

func kindForContentType(contentType string) (InputKind, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	if strings.HasPrefix(mediaType, "image/") {
		return KindImage, true
	}
	kind, ok := contentTypeKinds[mediaType]
	return kind, ok
}
