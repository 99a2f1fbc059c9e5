package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records as JSON lines.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds registry_id", func(t *testing.T) {
		h := newTestHandler()
		enriched := EnrichLogger(slog.New(h), "reg-123")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "reg-123", record["registry_id"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "reg-123"))
	})
}

func TestLogRegistered(t *testing.T) {
	h := newTestHandler()
	LogRegistered(slog.New(h), "text", 4, 2)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "value registered", record["msg"])
	assert.Equal(t, "text", record["kind"])
	assert.Equal(t, float64(4), record["seq"]) // JSON decodes ints as float64
	assert.Equal(t, float64(2), record["live"])
}

func TestLogRegisterFailed(t *testing.T) {
	h := newTestHandler()
	LogRegisterFailed(slog.New(h), "record", errors.New("bad input"), true)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "bad input", record["error"])
	assert.Equal(t, true, record["retained"])
}

func TestLogShutdown(t *testing.T) {
	t.Run("start", func(t *testing.T) {
		h := newTestHandler()
		LogShutdownStart(slog.New(h), 3)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "INFO", record["level"])
		assert.Equal(t, float64(3), record["live"])
	})

	t.Run("clean completion logs at info", func(t *testing.T) {
		h := newTestHandler()
		LogShutdownComplete(slog.New(h), 3, 0, 1.5)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "INFO", record["level"])
		assert.Equal(t, float64(3), record["destroyed"])
		assert.Equal(t, 1.5, record["duration_ms"])
	})

	t.Run("faulty completion logs at warn", func(t *testing.T) {
		h := newTestHandler()
		LogShutdownComplete(slog.New(h), 2, 1, 0)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "WARN", record["level"])
		assert.Equal(t, float64(1), record["faults"])
	})
}

func TestLogDestroyFault(t *testing.T) {
	h := newTestHandler()
	LogDestroyFault(slog.New(h), "text", 7, errors.New("boom"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, float64(7), record["seq"])
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogRegistered(nil, "k", 1, 1)
		LogRegisterFailed(nil, "k", errors.New("x"), false)
		LogShutdownStart(nil, 0)
		LogShutdownComplete(nil, 0, 0, 0)
		LogDestroyFault(nil, "k", 1, errors.New("x"))
		LogReportError(nil, errors.New("x"))
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	assert.GreaterOrEqual(t, done(), float64(0))
}
