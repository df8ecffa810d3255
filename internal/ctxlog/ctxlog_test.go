package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Run("falls back to the default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("returns the stored logger with attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		ctx := With(WithLogger(context.Background(), logger), "request_id", "abc")
		FromContext(ctx).Info("hello")

		assert.Contains(t, buf.String(), "request_id=abc")
		assert.Contains(t, buf.String(), "msg=hello")
	})
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "json", &buf)

	logger.Info("dropped")
	logger.Warn("kept", "node", "dig-1")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.Contains(t, buf.String(), `"node":"dig-1"`)

	buf.Reset()
	New("bogus", "text", &buf).Info("fallback")
	assert.Contains(t, buf.String(), "level=INFO")
}
