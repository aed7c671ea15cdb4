package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	w, err := NewFileWriter(dir)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, filepath.Join(dir, FileName), w.Filename)
	assert.NoFileExists(t, filepath.Join(dir, ".write-test"))
}

func TestNew_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger := New(&a, &b)
	logger.Info().Str("component", "selection").Msg("short-listed")

	for _, buf := range []*bytes.Buffer{&a, &b} {
		assert.Contains(t, buf.String(), `"component":"selection"`)
		assert.Contains(t, buf.String(), `"message":"short-listed"`)
	}
}

func TestNewFileWriter_WritesLines(t *testing.T) {
	dir := t.TempDir()
	w, err := NewFileWriter(dir)
	require.NoError(t, err)

	logger := New(w)
	logger.Warn().Msg("degenerate histogram")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "degenerate histogram")
}
