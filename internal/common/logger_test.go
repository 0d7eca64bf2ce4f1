package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	t.Run("json with fields", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, setupLogger(&buf, slog.LevelInfo, "json"))

		LogError(context.Background(), errors.New("boom"), "import failed", Fields{"path": "a.csv"})

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "import failed", entry["msg"])
		assert.Equal(t, "boom", entry["error"])
		assert.Equal(t, "a.csv", entry["path"])
	})

	t.Run("console filters by level", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, setupLogger(&buf, slog.LevelWarn, "console"))

		slog.Info("hidden")
		slog.Warn("shown", "count", 2)

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown count=2")
	})

	t.Run("unknown format", func(t *testing.T) {
		err := setupLogger(&bytes.Buffer{}, slog.LevelInfo, "xml")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
