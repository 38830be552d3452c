package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		events = append(events, e)
	}
	require.NoError(t, scanner.Err())
	return events
}

func TestLoggerWritesSessionEvents(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLogger(dir, "sess_test")
	require.NoError(t, err)

	require.NoError(t, log.Info(CategoryTool, "tool_dispatched", "tool executed", map[string]any{"tool": "query_pilots"}))
	require.NoError(t, log.Close())

	events := readEvents(t, filepath.Join(dir, "sessions", "sess_test.jsonl"))
	require.Len(t, events, 1)
	assert.Equal(t, LevelInfo, events[0].Level)
	assert.Equal(t, CategoryTool, events[0].Category)
	assert.Equal(t, "sess_test", events[0].SessionID)
	assert.Equal(t, "query_pilots", events[0].Details["tool"])
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestLoggerMirrorsErrors(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLogger(dir, "sess_err")
	require.NoError(t, err)

	require.NoError(t, log.Error(CategorySheets, "write_failed", "row update failed", nil))
	require.NoError(t, log.Info(CategorySession, "started", "", nil))
	require.NoError(t, log.Close())

	errorEvents := readEvents(t, filepath.Join(dir, "errors.jsonl"))
	require.Len(t, errorEvents, 1, "only error-level events reach the shared error log")
	assert.Equal(t, "write_failed", errorEvents[0].EventType)

	sessionEvents := readEvents(t, filepath.Join(dir, "sessions", "sess_err.jsonl"))
	assert.Len(t, sessionEvents, 2)
}

func TestLoggerMinLevel(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLogger(dir, "sess_lvl")
	require.NoError(t, err)

	require.NoError(t, log.Debug(CategoryModel, "request", "suppressed at default level", nil))
	log.SetMinLevel(LevelDebug)
	require.NoError(t, log.Debug(CategoryModel, "request", "now visible", nil))
	require.NoError(t, log.Close())

	events := readEvents(t, filepath.Join(dir, "sessions", "sess_lvl.jsonl"))
	require.Len(t, events, 1)
	assert.Equal(t, "now visible", events[0].Message)
}

func TestLoggerCloseIsIdempotent(t *testing.T) {
	log, err := NewLogger(t.TempDir(), "sess_close")
	require.NoError(t, err)
	require.NoError(t, log.Close())
	assert.NoError(t, log.Close())
}
