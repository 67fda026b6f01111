// Package logging builds the slog loggers used by the importer, the HTTP
// server and the CLI. Every record carries a "type" attribute naming the
// subsystem that produced it.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Type tags for the "type" attribute.
const (
	TypeImport = "import"
	TypeDB     = "db"
	TypeHTTP   = "http"
	TypeSystem = "sys"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
// An empty name means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// New returns a logger writing to w at level in the given format.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		h = slog.NewTextHandler(w, opts)
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return slog.New(h), nil
}

// With returns a child of l tagged with the subsystem type. A nil l yields a
// logger that discards everything.
func With(l *slog.Logger, typ string) *slog.Logger {
	if l == nil {
		l = Discard()
	}
	return l.With(slog.String("type", typ))
}

// Discard returns a logger that drops all records.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Err is the attribute used for error values.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
