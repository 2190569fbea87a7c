// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup("debug")                    // level by name, stderr
//	logging.SetupWriter(w, slog.LevelWarn)    // explicit writer and level
//
// Level names: debug, info, warn, error (default: info).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Setup configures colored logging to stderr at the named level.
func Setup(level string) {
	SetupWriter(os.Stderr, ParseLevel(level))
}

// SetupWriter installs a tint handler writing to w as the default logger.
// Colors are disabled unless w is a terminal.
func SetupWriter(w io.Writer, level slog.Level) {
	slog.SetDefault(New(w, level))
}

// New returns a logger writing colored output to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
		NoColor:    !isTerminal(w),
	}))
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
