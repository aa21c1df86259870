package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_InjectsContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Service: "rentvsbuy", Level: "debug", Format: "json"}, &buf)

	ctx := ContextWithTraceID(context.Background(), "trace-1")
	ctx = ContextWithRequestID(ctx, "req-1")
	From(ctx, l).Debug("simulated", "paths", 10)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rentvsbuy", entry["service"])
	assert.Equal(t, "trace-1", entry["trace_id"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "simulated", entry["msg"])
	assert.EqualValues(t, 10, entry["paths"])
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "warn", Format: "text"}, &buf)
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogDuration(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Format: "json"}, &buf)

	done := LogDuration(context.Background(), l, "compare finished", "preset", "tampa")
	done()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tampa", entry["preset"])
	assert.Contains(t, entry, "duration")
}

func TestWithContext_Empty(t *testing.T) {
	assert.Equal(t, "", TraceID(context.Background()))
	assert.NotNil(t, WithContext(context.Background()))
}

func TestGet_FallsBackToDefault(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() { globalLogger = prev })

	globalLogger = nil
	assert.Same(t, slog.Default(), Get())

	var buf bytes.Buffer
	globalLogger = NewWithWriter(Config{Format: "json"}, &buf)
	Get().Info("from global")
	assert.Contains(t, buf.String(), "from global")
}
