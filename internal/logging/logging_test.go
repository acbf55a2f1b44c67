package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaGreal2/filmes-server/internal/config"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("dropped")
	logger.Warn("kept", "user_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.EqualValues(t, 7, line["user_id"])
}

func TestNew_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "filmes.log")
	var buf bytes.Buffer
	logger, closer, err := New(config.LogConfig{Level: "debug", File: path, MaxSize: 1}, &buf)
	require.NoError(t, err)

	logger.Debug("hello file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.Contains(t, buf.String(), "hello file")
}

func TestNew_RejectsUnknownValues(t *testing.T) {
	_, _, err := New(config.LogConfig{Format: "xml"}, nil)
	require.Error(t, err)

	_, err = ParseLevel("loud")
	require.Error(t, err)

	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
