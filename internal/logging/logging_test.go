package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Writer: &buf, Level: slog.LevelWarn})
	require.NoError(t, err)
	defer func() { require.NoError(t, closeFn()) }()

	logger.Info("hidden")
	logger.Warn("invalid meta block", "title", "deploy")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `msg="invalid meta block"`)
	assert.Contains(t, out, "title=deploy")
	assert.NotContains(t, out, "time=")
}

func TestNew_FileReceivesDebugJSON(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "pmc.log")

	logger, closeFn, err := New(Options{Writer: &buf, Level: slog.LevelError, File: path})
	require.NoError(t, err)

	logger.Debug("tick", "changed", 2)
	require.NoError(t, closeFn())

	assert.Empty(t, buf.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "tick", record["msg"])
	assert.InDelta(t, 2, record["changed"], 0)
}

func TestNew_BadFilePath(t *testing.T) {
	_, closeFn, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "pmc.log")})
	require.Error(t, err)
	assert.NoError(t, closeFn())
}
