// Package middleware wraps CLI command handlers with cross-cutting behavior.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Handler runs one command with its remaining arguments.
type Handler func(ctx context.Context, args []string) error

// Middleware decorates a Handler.
type Middleware func(name string, next Handler) Handler

// ErrUsage marks errors caused by bad command-line input. They are logged at
// Warn instead of Error.
var ErrUsage = errors.New("usage error")

// Chain applies mws to h so that the first middleware is outermost.
func Chain(name string, h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](name, h)
	}
	return h
}

// Logging logs every command with its duration and outcome.
func Logging(name string, next Handler) Handler {
	return func(ctx context.Context, args []string) error {
		start := time.Now()
		slog.Debug("Command received", "command", name, "args_count", len(args))

		err := next(ctx, args)

		duration := time.Since(start).Milliseconds()
		switch {
		case err == nil:
			slog.Info("Command ok", "command", name, "duration_ms", duration)
		case errors.Is(err, ErrUsage):
			slog.Warn("Command rejected", "command", name, "error", err, "duration_ms", duration)
		default:
			slog.Error("Command failed", "command", name, "error", err, "duration_ms", duration)
		}
		return err
	}
}

// Recover turns a panic in the command into an error.
func Recover(name string, next Handler) Handler {
	return func(ctx context.Context, args []string) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("command %s panicked: %v", name, r)
			}
		}()
		return next(ctx, args)
	}
}
