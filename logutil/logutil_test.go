package logutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerTraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelTrace)

	logger.Log(t.Context(), LevelTrace, "vulkan load try", "attempt", 1)

	out := buf.String()
	assert.Contains(t, out, "level=TRACE")
	assert.Contains(t, out, "attempt=1")
	assert.Contains(t, out, "logutil_test.go")
	assert.NotContains(t, out, "/logutil/logutil_test.go")
}

func TestTraceDisabledAtInfo(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	slog.SetDefault(NewLogger(&buf, slog.LevelInfo))
	Trace("hidden")
	assert.Empty(t, buf.String())

	slog.SetDefault(NewLogger(&buf, LevelTrace))
	Trace("visible", "k", "v")
	assert.True(t, strings.Contains(buf.String(), "msg=visible"))
	assert.Contains(t, buf.String(), "logutil_test.go")
}
