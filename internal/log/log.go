// Package log provides structured logging for flowbar.
// Entries carry a level, a category and key=value fields. Logging is off unless
// --debug or FLOWBAR_DEBUG turns it on, so the TUI never writes to the terminal.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowbrowser/flowbar/internal/pubsub"
)

// DebugEnv enables logging when set to a non-empty value.
const DebugEnv = "FLOWBAR_DEBUG"

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatDB      Category = "db"      // Database open and migrations
	CatConfig  Category = "config"  // Configuration loading/saving
	CatWatcher Category = "watcher" // File watcher events
	CatUI      Category = "ui"      // UI component updates
	CatDrag    Category = "drag"    // Drag gestures, admissibility, drops
	CatReorder Category = "reorder" // Reorder engine and cross-space moves
	CatStore   Category = "store"   // Tabs store commands
	CatCache   Category = "cache"   // Snapshot cache
	CatTrace   Category = "trace"   // Tracing provider
)

// Entry is one formatted log line, published to listeners.
type Entry struct {
	Time     time.Time
	Level    Level
	Category Category
	Message  string
	Line     string
}

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	closer   io.Closer
	writer   io.Writer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[Entry]
}

var (
	defaultLogger *Logger
	defaultMu     sync.Mutex
)

// Init opens path for appending and installs it as the global logger.
// Returns a cleanup function that closes the file.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) //nolint:gosec // G304: debug log path is user-controlled
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	install(newLogger(f, f))
	return func() { _ = f.Close() }, nil
}

// InitWithTeaLog uses tea.LogToFile so the Bubble Tea runtime logs to the same file.
func InitWithTeaLog(path string, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, err
	}
	install(newLogger(f, f))
	return func() { _ = f.Close() }, nil
}

// InitWriter installs a logger writing to w. Used by tests and by callers
// that own the destination.
func InitWriter(w io.Writer) {
	install(newLogger(w, nil))
}

// EnabledByEnv reports whether FLOWBAR_DEBUG asks for logging.
func EnabledByEnv() bool {
	return strings.TrimSpace(os.Getenv(DebugEnv)) != ""
}

func newLogger(w io.Writer, closer io.Closer) *Logger {
	return &Logger{
		closer:   closer,
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[Entry](),
	}
}

func install(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger != nil && defaultLogger.broker != nil {
		defaultLogger.broker.Close()
	}
	defaultLogger = l
}

func current() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultLogger
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(LevelError, cat, msg, fields...)
}

func write(level Level, cat Category, msg string, fields ...any) {
	l := current()
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel {
		return
	}

	// Format: 2026-10-18T10:45:00 [WARN] [drag] message key=value key2=value2
	now := time.Now()
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", now.Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')
	line := b.String()

	if l.writer != nil {
		_, _ = io.WriteString(l.writer, line)
	}

	l.broker.Publish(pubsub.CreatedEvent, Entry{
		Time:     now,
		Level:    level,
		Category: cat,
		Message:  msg,
		Line:     line,
	})
}

// LogEvent is a pubsub event containing a log entry.
type LogEvent = pubsub.Event[Entry]

// LogListener wraps a continuous listener for log events.
type LogListener = pubsub.ContinuousListener[Entry]

// NewListener creates a new log event listener.
// The listener is cleaned up when the context is cancelled.
func NewListener(ctx context.Context) *LogListener {
	l := current()
	if l == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, l.broker)
}
