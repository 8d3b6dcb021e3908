package convlog

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerWritesPerSessionNDJSON(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Config{Enabled: true, Dir: dir, QueueSize: 16}, slog.Default())
	require.NoError(t, err)

	logger.Log(Event{
		SessionID:  "device-1:tab-1",
		Channel:    "chat_http",
		Direction:  "inbound",
		EventType:  "chat_message",
		ContentRaw: "有給休暇は...\n\n---\n**関連キーワード:** 有給,有休",
	})
	logger.Log(Event{SessionID: "device-1:tab-1", EventType: "session_end"})
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(dir, "device-1_tab-1.ndjson"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.NotEmpty(t, got.Timestamp)
	assert.Equal(t, "有給休暇は...\n関連キーワード: 有給,有休", got.Content)
}

func TestDisabledLoggerIsNoop(t *testing.T) {
	logger, err := New(Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, Noop{}, logger)
	logger.Log(Event{SessionID: "x"})
	assert.NoError(t, logger.Close())
}

func TestLogAfterCloseIsDropped(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Config{Enabled: true, Dir: dir}, nil)
	require.NoError(t, err)
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	logger.Log(Event{SessionID: "late"})
	_, err = os.Stat(filepath.Join(dir, "late.ndjson"))
	assert.True(t, os.IsNotExist(err))
}

func TestCleanForReadability(t *testing.T) {
	assert.Equal(t, "a\nb", cleanForReadability("**a**\n\n---\nb"))
}
