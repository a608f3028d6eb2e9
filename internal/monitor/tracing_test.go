package monitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type panicGPU struct{}

func (panicGPU) Sample(context.Context) GPUReading { panic("gpu probe exploded") }

func recordingProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, sr
}

func spansByName(sr *tracetest.SpanRecorder) map[string]sdktrace.ReadOnlySpan {
	out := make(map[string]sdktrace.ReadOnlySpan)
	for _, s := range sr.Ended() {
		out[s.Name()] = s
	}
	return out
}

func attrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestAssemblerRecordsSourceSpans(t *testing.T) {
	tp, sr := recordingProvider(t)
	h, _ := fakeMonitorHost()
	sources := NewSources(context.Background(), h, DefaultOptions(), nil)
	sources.GPU = panicGPU{}

	NewAssembler(sources, 2, nil, nil, WithTracerProvider(tp)).Assemble(context.Background())

	spans := spansByName(sr)
	require.Len(t, sr.Ended(), 6, "assemble plus one span per source")

	root, ok := spans["monitor.assemble"]
	require.True(t, ok)
	for _, name := range []string{"cpu", "processes", "gpu", "memory", "network"} {
		s, ok := spans["monitor.source."+name]
		require.True(t, ok, "missing span for %s", name)
		assert.Equal(t, root.SpanContext().SpanID(), s.Parent().SpanID(), "%s is a child of assemble", name)
		assert.Equal(t, tracerName, s.InstrumentationScope().Name)
	}

	gpu := spans["monitor.source.gpu"]
	assert.Equal(t, codes.Error, gpu.Status().Code)
	assert.Equal(t, "panic", gpu.Status().Description)
	require.Len(t, gpu.Events(), 1)
	assert.Equal(t, "exception", gpu.Events()[0].Name)
	var message string
	for _, kv := range gpu.Events()[0].Attributes {
		if kv.Key == "exception.message" {
			message = kv.Value.AsString()
		}
	}
	assert.Contains(t, message, "source gpu panicked: gpu probe exploded")

	for _, name := range []string{"cpu", "processes", "memory", "network"} {
		s := spans["monitor.source."+name]
		assert.Equal(t, codes.Unset, s.Status().Code, name)
		assert.Empty(t, s.Events(), name)
	}

	got := attrs(root)
	assert.True(t, got["cpu.available"].AsBool())
	assert.False(t, got["gpu.available"].AsBool())
	assert.True(t, got["memory.available"].AsBool())
	assert.True(t, got["network.available"].AsBool())
	assert.Equal(t, int64(2), got["processes"].AsInt64())
}

func TestAssemblerSpanParentsOnCallerContext(t *testing.T) {
	tp, sr := recordingProvider(t)
	h, _ := fakeMonitorHost()

	ctx, parent := tp.Tracer("caller").Start(context.Background(), "tick")
	NewAssembler(NewSources(context.Background(), h, DefaultOptions(), nil), 2, nil, nil,
		WithTracerProvider(tp)).Assemble(ctx)
	parent.End()

	root := spansByName(sr)["monitor.assemble"]
	require.NotNil(t, root)
	assert.Equal(t, parent.SpanContext().TraceID(), root.SpanContext().TraceID())
	assert.Equal(t, parent.SpanContext().SpanID(), root.Parent().SpanID())
}

func TestWithTracerProviderNilKeepsGlobal(t *testing.T) {
	h, _ := fakeMonitorHost()
	a := NewAssembler(NewSources(context.Background(), h, DefaultOptions(), nil), 2, nil, nil,
		WithTracerProvider(nil))
	require.NotNil(t, a.tracer)

	snap := a.Assemble(context.Background())
	assert.True(t, snap.CPU.Available)
}

func TestNewHostPollerUsesTracerProvider(t *testing.T) {
	tp, sr := recordingProvider(t)
	h, _ := fakeMonitorHost()
	opts := DefaultOptions()
	opts.TracerProvider = tp

	p, err := NewHostPoller(context.Background(), h, opts, nil)
	require.NoError(t, err)

	_, updates := p.SubscribeChan()
	p.Start(context.Background())
	<-updates
	p.Stop()

	_, ok := spansByName(sr)["monitor.assemble"]
	assert.True(t, ok, "poller ticks record on the configured provider")
}
