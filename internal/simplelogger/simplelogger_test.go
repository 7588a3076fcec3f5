package simplelogger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filekit.log")

	logger, done := New(path)
	logger.Debug("hello", zap.String("path", "a.txt"))
	done()

	logger, done = New(path)
	logger.Info("again")
	done()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "hello", first["msg"])
	require.Equal(t, "a.txt", first["path"])
	require.Equal(t, "debug", first["level"])
	require.Contains(t, lines[1], `"msg":"again"`)
}

func TestNew_NoOpWhenEmpty(t *testing.T) {
	logger, done := New("")
	logger.Info("should not panic")
	done()
}

func TestNew_NoOpWhenPathIsDirectory(t *testing.T) {
	dir := t.TempDir()

	logger, done := New(dir)
	logger.Info("ignored")
	done()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
