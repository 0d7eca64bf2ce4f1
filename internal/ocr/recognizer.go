// Package ocr turns receipt images into plain text.
package ocr

import (
	"context"

	"github.com/Veraticus/spendwise/internal/common"
)

// StageRecognize names the text recognition step in extraction errors.
const StageRecognize = "recognize"

// Engine names accepted by the ocr.engine setting.
const (
	EngineGemini    = "gemini"
	EngineTesseract = "tesseract"
)

// Recognizer returns the full text printed on the image at path.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, path string) (string, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

func recognizeError(path string, err error) error {
	return &common.ExtractionError{Path: path, Stage: StageRecognize, Err: err}
}
