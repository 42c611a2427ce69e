// Package log provides structured logging for branchdiff.
// Loggers are plain values handed to the components that need them; a nil
// *Logger is valid and discards everything, so callers never have to guard.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

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

// ParseLevel maps a config string to a Level. Unknown names fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Category groups related log messages.
type Category string

const (
	CatGit       Category = "git"       // Diff source: git CLI and go-git
	CatBuilder   Category = "builder"   // Diff tree construction
	CatSession   Category = "session"   // Range loading and navigation
	CatUI        Category = "ui"        // UI component updates
	CatConfig    Category = "config"    // Configuration loading
	CatHighlight Category = "highlight" // Syntax highlighting
	CatCache     Category = "cache"     // In-memory caches
)

// Logger writes leveled, categorized lines to a writer.
type Logger struct {
	mu       sync.Mutex
	closer   io.Closer
	writer   io.Writer
	minLevel Level
	now      func() time.Time
}

// New returns a logger writing entries at or above minLevel to w.
func New(w io.Writer, minLevel Level) *Logger {
	return &Logger{writer: w, minLevel: minLevel, now: time.Now}
}

// Open appends to the log file at path using tea.LogToFile, which also
// redirects the standard library logger so bubbletea's own output lands there.
func Open(path string, minLevel Level) (*Logger, error) {
	f, err := tea.LogToFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	l := New(f, minLevel)
	l.closer = f
	return l, nil
}

// OpenFile appends to path without touching the standard library logger.
func OpenFile(path string, minLevel Level) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: path is user-controlled debug log path
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	l := New(f, minLevel)
	l.closer = f
	return l, nil
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	return nil
}

// Close releases the underlying file, if the logger owns one.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// SetMinLevel sets the minimum log level.
func (l *Logger) SetMinLevel(level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.minLevel = level
	l.mu.Unlock()
}

// Debug logs at debug level.
func (l *Logger) Debug(cat Category, msg string, fields ...any) {
	l.log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func (l *Logger) Info(cat Category, msg string, fields ...any) {
	l.log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func (l *Logger) Warn(cat Category, msg string, fields ...any) {
	l.log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func (l *Logger) Error(cat Category, msg string, fields ...any) {
	l.log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func (l *Logger) ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	l.log(LevelError, cat, msg, fields...)
}

// Category binds the logger to one category. The result satisfies the
// narrow sink interfaces consumed by the engine packages.
func (l *Logger) Category(cat Category) *CategoryLogger {
	return &CategoryLogger{logger: l, cat: cat}
}

func (l *Logger) log(level Level, cat Category, msg string, fields ...any) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.minLevel || l.writer == nil {
		return
	}

	// Format: 2025-12-06T10:45:00 [WARN] [builder] message key=value key2=value2
	var b strings.Builder
	b.WriteString(l.now().Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&b, " [%s] [%s] %s", level, cat, msg)

	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	// Orphan key with no value
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(l.writer, b.String())
}

// CategoryLogger is a Logger with a fixed category.
type CategoryLogger struct {
	logger *Logger
	cat    Category
}

// Debug logs at debug level.
func (c *CategoryLogger) Debug(msg string, fields ...any) {
	c.logger.log(LevelDebug, c.cat, msg, fields...)
}

// Info logs at info level.
func (c *CategoryLogger) Info(msg string, fields ...any) {
	c.logger.log(LevelInfo, c.cat, msg, fields...)
}

// Warn logs at warning level.
func (c *CategoryLogger) Warn(msg string, fields ...any) {
	c.logger.log(LevelWarn, c.cat, msg, fields...)
}

// Error logs at error level.
func (c *CategoryLogger) Error(msg string, fields ...any) {
	c.logger.log(LevelError, c.cat, msg, fields...)
}
