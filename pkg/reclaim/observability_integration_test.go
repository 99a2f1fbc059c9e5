package reclaim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// testLogHandler captures log records for testing.
type testLogHandler struct {
	buf   *bytes.Buffer
	attrs []slog.Attr
}

func newTestLogHandler() *testLogHandler {
	return &testLogHandler{buf: &bytes.Buffer{}}
}

func (h *testLogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *testLogHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, a := range h.attrs {
		data[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &testLogHandler{buf: h.buf, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *testLogHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *testLogHandler) getRecords() []map[string]any {
	var records []map[string]any
	for _, line := range bytes.Split(h.buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(line, &m); err == nil {
			records = append(records, m)
		}
	}
	return records
}

func (h *testLogHandler) messages() []string {
	var msgs []string
	for _, rec := range h.getRecords() {
		msgs = append(msgs, rec["msg"].(string))
	}
	return msgs
}

// recordingMetrics captures MetricsRecorder calls.
type recordingMetrics struct {
	registered map[string]int
	failed     map[string]int
	faults     map[string]int
	shutdowns  int
	destroyed  int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		registered: make(map[string]int),
		failed:     make(map[string]int),
		faults:     make(map[string]int),
	}
}

func (m *recordingMetrics) RecordRegister(_ context.Context, kind string, err error) {
	if err != nil {
		m.failed[kind]++
		return
	}
	m.registered[kind]++
}

func (m *recordingMetrics) RecordShutdown(_ context.Context, destroyed, _ int, _ time.Duration) {
	m.shutdowns++
	m.destroyed += destroyed
}

func (m *recordingMetrics) RecordDestroyFault(_ context.Context, kind string) {
	m.faults[kind]++
}

// tracerSpans routes SpanManager calls to a private SDK tracer so the test
// does not touch the global provider.
type tracerSpans struct {
	tracer trace.Tracer
}

func (s tracerSpans) StartShutdownSpan(ctx context.Context, registryID string, live int) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "reclaim.shutdown", trace.WithAttributes(
		attribute.String("registry.id", registryID),
		attribute.Int("registry.live", live),
	))
}

func (s tracerSpans) EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

func (s tracerSpans) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

func TestRegistry_Logging(t *testing.T) {
	h := newTestLogHandler()
	r := New(WithID("reg-log"), WithLogger(slog.New(h)))

	tr := &tracker{}
	_, err := r.RegisterBinding(tr.binding("box"), "a")
	require.NoError(t, err)
	_, err = r.RegisterBinding(Binding{
		Name:      "broken",
		Construct: func(any) (any, error) { return nil, errors.New("nope") },
		Destroy:   func(any) {},
	}, nil)
	require.Error(t, err)

	_, err = r.Shutdown(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"value registered",
		"register failed",
		"registry shutdown starting",
		"registry shutdown completed",
	}, h.messages())

	for _, rec := range h.getRecords() {
		assert.Equal(t, "reg-log", rec["registry_id"], "every record is scoped to the registry")
	}
}

func TestRegistry_Metrics(t *testing.T) {
	m := newRecordingMetrics()
	r := New(WithMetrics(m))

	tr := &tracker{}
	for _, name := range []string{"a", "b"} {
		_, err := r.RegisterBinding(tr.binding("box"), name)
		require.NoError(t, err)
	}
	_, err := r.RegisterBinding(Binding{
		Name:      "faulty",
		Construct: func(any) (any, error) { return &box{}, nil },
		Destroy:   func(any) { panic("boom") },
	}, nil)
	require.NoError(t, err)
	_, err = r.Register(nil, func(any) (any, error) { return nil, nil }, func(any) {})
	require.ErrorIs(t, err, ErrAllocationFailure)

	_, err = r.Shutdown(context.Background())
	require.Error(t, err)

	assert.Equal(t, map[string]int{"box": 2, "faulty": 1}, m.registered)
	assert.Equal(t, map[string]int{"": 1}, m.failed)
	assert.Equal(t, map[string]int{"faulty": 1}, m.faults)
	assert.Equal(t, 1, m.shutdowns)
	assert.Equal(t, 2, m.destroyed)
}

func TestRegistry_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	r := New(WithID("reg-trace"), WithSpanManager(tracerSpans{tracer: tp.Tracer("test")}))
	tr := &tracker{}
	for _, name := range []string{"a", "b", "c"} {
		_, err := r.RegisterBinding(tr.binding("box"), name)
		require.NoError(t, err)
	}

	_, err := r.Shutdown(context.Background())
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "reclaim.shutdown", spans[0].Name)
	require.Len(t, spans[0].Events, 3)

	var seqs []int64
	for _, ev := range spans[0].Events {
		assert.Equal(t, "entry.destroyed", ev.Name)
		for _, attr := range ev.Attributes {
			if attr.Key == "seq" {
				seqs = append(seqs, attr.Value.AsInt64())
			}
		}
	}
	assert.Equal(t, []int64{3, 2, 1}, seqs)
}
