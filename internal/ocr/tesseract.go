package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TesseractRecognizer shells out to the tesseract command line tool.
type TesseractRecognizer struct {
	binary string
}

// NewTesseractRecognizer creates a recognizer. An empty binary uses
// "tesseract" from PATH.
func NewTesseractRecognizer(binary string) *TesseractRecognizer {
	if binary == "" {
		binary = "tesseract"
	}
	return &TesseractRecognizer{binary: binary}
}

// Recognize runs "tesseract <path> stdout" and returns its output.
func (t *TesseractRecognizer) Recognize(ctx context.Context, path string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binary, path, "stdout")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", recognizeError(path, err)
	}
	return stdout.String(), nil
}
