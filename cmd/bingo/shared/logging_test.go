package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, log.InfoLevel)

	logger.Debug("hidden")
	logger.Info("Drew number", "number", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Drew number")
	assert.Contains(t, out, "number=42")
}

func TestSetupFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bingo.log")

	logger, f, err := SetupFileLogger(path, true)
	require.NoError(t, err)
	logger.Debug("Started game", "seed", 7)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Started game")
	assert.Contains(t, string(data), "seed=7")
}
