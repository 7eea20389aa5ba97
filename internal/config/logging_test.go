package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"off", LogLevelOff},
		{"none", LogLevelOff},
		{"error", LogLevelError},
		{"ERROR", LogLevelError},
		{"info", LogLevelInfo},
		{" debug ", LogLevelDebug},
		{"", LogLevelError},
		{"garbage", LogLevelError},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ParseLogLevel(tc.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "off", LogLevelOff.String())
	assert.Equal(t, "error", LogLevelError.String())
	assert.Equal(t, "info", LogLevelInfo.String())
	assert.Equal(t, "debug", LogLevelDebug.String())
	assert.Equal(t, "error", LogLevel(42).String())
}

func TestNewLogger_LevelOffOrEmptyPath(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "off.log")

	off, err := NewLogger(LogLevelOff, path)
	require.NoError(t, err)
	off.Error("dropped")
	require.NoError(t, off.Close())
	assert.NoFileExists(t, path)

	empty, err := NewLogger(LogLevelDebug, "")
	require.NoError(t, err)
	empty.Debug("dropped")
	require.NoError(t, empty.Close())
}

func TestNewLogger_CreatesDirectoryAndWritesJSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "tonsigil.log")

	logger, err := NewLogger(LogLevelDebug, path)
	require.NoError(t, err)
	assert.Equal(t, path, logger.Path())

	logger.Debug("probing %s", "v4R2")
	logger.Error("failed: %d", 7)
	require.NoError(t, logger.Close())

	lines := readLogLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "probing v4R2", lines[0]["message"])
	assert.Contains(t, lines[0], "time")
	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "failed: 7", lines[1]["message"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNewLogger_InvalidPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := NewLogger(LogLevelError, filepath.Join(blocker, "sub", "x.log"))
	require.Error(t, err)
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewWriterLogger(LogLevelError, &buf)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Error("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Equal(t, LogLevelError, logger.Level())

	buf.Reset()
	info := NewWriterLogger(LogLevelInfo, &buf)
	info.Info("now info")
	info.Debug("still hidden")
	assert.Contains(t, buf.String(), "now info")
	assert.NotContains(t, buf.String(), "still hidden")

	buf.Reset()
	off := NewWriterLogger(LogLevelOff, &buf)
	off.Error("silenced")
	assert.Empty(t, buf.String())
}

func TestLogger_StorageEngineLevels(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewWriterLogger(LogLevelInfo, &buf)

	logger.Infof("compaction %d done\n", 3)
	logger.Debugf("internal")
	assert.Empty(t, buf.String(), "engine progress needs debug")

	logger.Warningf("value log %s\n", "rotated")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "value log rotated", entry["message"])
	assert.Equal(t, "info", entry["level"])

	buf.Reset()
	logger.Errorf("disk %s", "full")
	assert.Contains(t, buf.String(), `"level":"error"`)

	buf.Reset()
	debug := NewWriterLogger(LogLevelDebug, &buf)
	debug.Infof("opened %s", "db")
	assert.Contains(t, buf.String(), "opened db")
}

func TestNullLogger(t *testing.T) {
	t.Parallel()
	logger := NullLogger()
	logger.Debug("x")
	logger.Info("x")
	logger.Error("x")
	assert.Equal(t, LogLevelOff, logger.Level())
	require.NoError(t, logger.Close())
}

func TestLogger_Concurrent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "concurrent.log")
	logger, err := NewLogger(LogLevelDebug, path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 10 {
				logger.Debug("goroutine %d message %d", i, j)
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	assert.Len(t, readLogLines(t, path), 100)
}

func readLogLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test path
	require.NoError(t, err)

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}
