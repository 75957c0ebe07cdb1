// Package logging provides file-based logging for treeboard.
// Entries go to a single log file (or stderr) through a log/slog handler, one
// line per record:
//
//	[2025-12-30 09:32:51] [INFO] [sync] remote call failed op="create task task-1"
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// StderrPath selects standard error instead of a log file.
const StderrPath = "-"

// Logger owns the log destination and hands out slog loggers writing to it.
// Fields are ordered to minimize memory padding.
type Logger struct {
	out   io.Writer
	file  *os.File
	path  string
	mu    sync.Mutex
	level slog.Level
}

// New creates a new Logger that appends to path. The file is opened on the
// first entry. An empty path disables logging; StderrPath logs to stderr.
func New(path string, level slog.Level) *Logger {
	l := &Logger{path: path, level: level}
	if path == StderrPath {
		l.out = os.Stderr
	}
	return l
}

// NewWriter creates a Logger writing to w.
func NewWriter(w io.Writer, level slog.Level) *Logger {
	return &Logger{out: w, path: StderrPath, level: level}
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Slog returns a *slog.Logger writing through this Logger.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(&handler{logger: l, component: "app"})
}

// Path returns the log destination ("" when disabled).
func (l *Logger) Path() string {
	return l.path
}

// ensureOutput opens or returns the log destination.
func (l *Logger) ensureOutput() (io.Writer, error) {
	if l.out != nil {
		return l.out, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	l.out = f
	return f, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.out = nil
	return err
}

func (l *Logger) write(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, err := l.ensureOutput()
	if err != nil {
		return
	}
	_, _ = io.WriteString(w, entry)
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [component] message key=value ...
func formatLog(t time.Time, level slog.Level, component, msg, attrs string) string {
	return fmt.Sprintf("[%s] [%s] [%s] %s%s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		component,
		msg,
		attrs,
	)
}

func levelToString(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// handler is the slog.Handler behind Logger.Slog. The "component" attribute is
// lifted into the bracketed prefix; other attributes follow the message.
type handler struct {
	logger    *Logger
	component string
	prefix    string
	attrs     string
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.path != "" && level >= h.logger.level
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(h.attrs)
	component := h.component
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" && h.prefix == "" {
			component = a.Value.String()
			return true
		}
		appendAttr(&b, h.prefix, a)
		return true
	})
	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	h.logger.write(formatLog(t, r.Level, component, r.Message, b.String()))
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		if a.Key == "component" && h.prefix == "" {
			c.component = a.Value.String()
			continue
		}
		appendAttr(&b, h.prefix, a)
	}
	c.attrs = b.String()
	return &c
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, p, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	v := a.Value.String()
	if v == "" || strings.ContainsAny(v, " \t\n\"=") {
		v = fmt.Sprintf("%q", v)
	}
	b.WriteString(v)
}
