// Package logging builds the golog loggers handed to every component.
package logging

import (
	"io"
	"strings"

	"github.com/kataras/golog"
)

// New returns a logger writing to w at the given level
// (debug, info, warn, error or disable). Unknown levels fall back to info.
func New(level string, w io.Writer) *golog.Logger {
	l := golog.New()
	l.SetPrefix("[paperqa] ")
	l.SetOutput(w)
	l.SetLevel(normalizeLevel(level))
	return l
}

// Discard returns a logger that drops everything.
func Discard() *golog.Logger {
	l := golog.New()
	l.SetOutput(io.Discard)
	l.SetLevel("disable")
	return l
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *golog.Logger) *golog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

func normalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return "debug"
	case "warn", "warning":
		return "warn"
	case "error":
		return "error"
	case "disable", "off", "none":
		return "disable"
	default:
		return "info"
	}
}
