package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyPathIsNop(t *testing.T) {
	log, err := New("", true)
	require.NoError(t, err)
	log.Info("dropped")
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chiptide.log")
	log, err := New(path, false)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("asset loaded")
	Sink(log)("ALSA lib underrun")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"asset loaded"`)
	assert.Contains(t, string(data), `"line":"ALSA lib underrun"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_Debug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chiptide.log")
	log, err := New(path, true)
	require.NoError(t, err)

	log.Debug("row skipped")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "row skipped")
}
