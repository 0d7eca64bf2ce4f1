package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

const transcribePrompt = "Transcribe every line of text printed on this receipt, top to bottom.\n" +
	"Keep prices, dates and totals exactly as printed.\n" +
	"Return ONLY the plain text, one receipt line per output line.\n" +
	"Do NOT add commentary, Markdown or code fences.\n"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiRecognizer transcribes images with a Gemini model.
type GeminiRecognizer struct {
	models contentGenerator
	model  string
}

// NewGeminiRecognizer creates a recognizer backed by the Gemini API. An empty
// apiKey lets the client read GEMINI_API_KEY or GOOGLE_API_KEY.
func NewGeminiRecognizer(ctx context.Context, apiKey, model string) (*GeminiRecognizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGeminiRecognizer(client.Models, model), nil
}

func newGeminiRecognizer(models contentGenerator, model string) *GeminiRecognizer {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiRecognizer{models: models, model: model}
}

// Recognize sends the image inline with a transcription prompt.
func (g *GeminiRecognizer) Recognize(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", recognizeError(path, err)
	}

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: transcribePrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimetype.Detect(data).String(),
						Data:     data,
					},
				},
			},
		},
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", recognizeError(path, fmt.Errorf("generate content: %w", err))
	}

	text := cleanTranscript(resp.Text())
	if text == "" {
		return "", recognizeError(path, errors.New("empty response from model"))
	}

	slog.Debug("recognized receipt text", "path", path, "model", g.model, "chars", len(text))
	return text, nil
}

// cleanTranscript drops code fences the model adds despite instructions.
func cleanTranscript(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
