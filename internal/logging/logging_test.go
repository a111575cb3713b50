package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/protmatch-go/internal/config"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, config.Log{Level: "info", Format: "json"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("aligned", "score", 12)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "aligned", entry["msg"])
	assert.Equal(t, float64(12), entry["score"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewWithWriterLogfmt(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, config.Log{Level: "debug", Format: "logfmt"})
	require.NoError(t, err)

	logger.Debug("scanning", "candidates", 3)
	assert.Contains(t, buf.String(), "candidates=3")
}

func TestNewWithWriterErrors(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, config.Log{Level: "loud", Format: "text"})
	require.Error(t, err)

	_, err = NewWithWriter(&bytes.Buffer{}, config.Log{Level: "info", Format: "xml"})
	require.Error(t, err)
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "protmatch.log")

	logger, closer, err := New(config.Log{Level: "info", Format: "logfmt", File: path})
	require.NoError(t, err)
	logger.Info("started", "workers", 2)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "workers=2")
}

func TestNewStderr(t *testing.T) {
	logger, closer, err := New(config.Log{Level: "warn", Format: "text"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing", "k", "v") })
}
