package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLog_WritesCategoryAndFields(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)

	Info(CatReorder, "reordered", "space", "work", "changes", 2)

	line := buf.String()
	require.Contains(t, line, "[INFO] [reorder] reordered")
	require.Contains(t, line, "space=work")
	require.Contains(t, line, "changes=2")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestLog_OddFieldCount(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)

	Warn(CatDrag, "rejected", "tab")

	require.Contains(t, buf.String(), "tab=<missing>")
}

func TestLog_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)

	ErrorErr(CatStore, "move failed", errors.New("disk full"), "tab", 3)
	ErrorErr(CatStore, "move failed", nil)

	out := buf.String()
	require.Contains(t, out, "error=disk full")
	require.Contains(t, out, "error=<nil>")
}

func TestLog_MinLevelAndDisable(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)

	SetMinLevel(LevelWarn)
	Debug(CatUI, "hidden")
	Warn(CatUI, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	buf.Reset()
	SetEnabled(false)
	Error(CatUI, "also hidden")
	require.Empty(t, buf.String())
}

func TestLog_ListenerReceivesEntries(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatCache, "flushed", "reason", "write")

	msg := listener.Listen()()
	event, ok := msg.(LogEvent)
	require.True(t, ok, "expected LogEvent, got %T", msg)
	require.Equal(t, CatCache, event.Payload.Category)
	require.Equal(t, LevelInfo, event.Payload.Level)
	require.Contains(t, event.Payload.Line, "reason=write")
	require.WithinDuration(t, time.Now(), event.Payload.Time, time.Minute)
}

func TestInit_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	cleanup, err := Init(path)
	require.NoError(t, err)
	Info(CatConfig, "loaded")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[config] loaded")
}

func TestEnabledByEnv(t *testing.T) {
	t.Setenv(DebugEnv, "")
	require.False(t, EnabledByEnv())
	t.Setenv(DebugEnv, "1")
	require.True(t, EnabledByEnv())
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}
