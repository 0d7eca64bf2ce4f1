package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImportProgress(t *testing.T) {
	var out bytes.Buffer
	bar := NewImportProgress(&out, 2)

	require.NoError(t, bar.Add(1))
	require.NoError(t, bar.Add(1))

	assert.True(t, bar.IsFinished())
	assert.Contains(t, out.String(), "Importing files...")
	assert.Contains(t, out.String(), "2/2")
}
