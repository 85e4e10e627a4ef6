// Package logging builds the process slog logger and request scoped loggers.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// NewLogger returns a JSON logger, or a text logger when format is "text".
// Unknown levels fall back to info.
func NewLogger(level, format string) *slog.Logger {
	return New(os.Stdout, level, format)
}

func New(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// WithRequestID adds the chi request id of ctx to logger, if there is one.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		return logger
	}

	return logger.With(slog.String("request_id", reqID))
}
