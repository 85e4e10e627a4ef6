package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_FormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	New(&buf, "info", "text").Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")

	WithRequestID(context.Background(), logger).Info("no id")
	assert.NotContains(t, buf.String(), "request_id")

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-7")
	WithRequestID(ctx, logger).Info("with id")
	assert.Contains(t, buf.String(), `"request_id":"req-7"`)
}
