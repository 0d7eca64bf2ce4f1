package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendwise/internal/common"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("HOME", "/home/tester")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "/home/tester/.local/share/spendwise/spendwise.db", cfg.DatabasePath)
	assert.Equal(t, DefaultUserID, cfg.UserID)
	assert.Equal(t, "gemini", cfg.OCR.Engine)
	assert.Equal(t, DefaultOCRModel, cfg.OCR.Model)
	assert.Equal(t, "tesseract", cfg.OCR.TesseractPath)
	assert.Empty(t, cfg.OCR.APIKey)
	assert.False(t, cfg.KeepUploads)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFromConfigFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/spendwise-test.db
user:
  id: alice
ocr:
  engine: Tesseract
  tesseract_path: /usr/local/bin/tesseract
ingest:
  keep_uploads: true
logging:
  level: DEBUG
  format: json
`), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/spendwise-test.db", cfg.DatabasePath)
	assert.Equal(t, "alice", cfg.UserID)
	assert.Equal(t, "tesseract", cfg.OCR.Engine)
	assert.Equal(t, "/usr/local/bin/tesseract", cfg.OCR.TesseractPath)
	assert.Equal(t, "env-key", cfg.OCR.APIKey)
	assert.True(t, cfg.KeepUploads)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadAPIKeyPrecedence(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-env")
	t.Setenv("GOOGLE_API_KEY", "google-env")

	v := viper.New()
	v.Set("ocr.api_key", "from-config")
	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "from-config", cfg.OCR.APIKey)

	cfg, err = LoadFrom(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "gemini-env", cfg.OCR.APIKey)

	t.Setenv("GEMINI_API_KEY", "")
	cfg, err = LoadFrom(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "google-env", cfg.OCR.APIKey)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "unknown ocr engine", key: "ocr.engine", value: "easyocr", wantErr: common.ErrInvalidConfig},
		{name: "unknown log level", key: "logging.level", value: "verbose", wantErr: common.ErrInvalidConfig},
		{name: "unknown log format", key: "logging.format", value: "xml", wantErr: common.ErrInvalidConfig},
		{name: "blank user", key: "user.id", value: "  ", wantErr: common.ErrMissingConfig},
		{name: "blank database path", key: "database.path", value: "", wantErr: common.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)

			_, err := LoadFrom(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("SPENDWISE_DATA", "/data")

	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "~", want: "/home/tester"},
		{input: "~/db/spendwise.db", want: "/home/tester/db/spendwise.db"},
		{input: "$HOME/x.db", want: "/home/tester/x.db"},
		{input: "$SPENDWISE_DATA/x.db", want: "/data/x.db"},
		{input: "/abs/path.db", want: "/abs/path.db"},
		{input: "~user/path", want: "~user/path"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}
