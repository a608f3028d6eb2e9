package exporter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/rileyhilliard/pulse/internal/monitor"
)

type stubCPU struct{}

func (stubCPU) Sample(context.Context) monitor.CPUReading {
	return monitor.CPUReading{Overall: 10, PerCore: []float64{10}, Available: true}
}

type explodingGPU struct{}

func (explodingGPU) Sample(context.Context) monitor.GPUReading { panic("ioreg output unreadable") }

type stubMemory struct{}

func (stubMemory) Sample(context.Context) monitor.MemoryReading {
	return monitor.MemoryReading{Percent: 40, Pressure: monitor.PressureNormal, Available: true}
}

type stubNetwork struct{}

func (stubNetwork) Sample(context.Context) monitor.NetworkReading {
	return monitor.NetworkReading{Available: true}
}

func (stubNetwork) Unavailable() monitor.NetworkReading { return monitor.NetworkReading{} }

type stubProcs struct{}

func (stubProcs) Top(context.Context, int) []monitor.ProcessEntry {
	return []monitor.ProcessEntry{{Name: "compiler", CPUPercent: 90}}
}

func TestSpanProcessor_RecordsTicksFromAssembler(t *testing.T) {
	e := New()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(e.SpanProcessor()))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	sources := monitor.Sources{
		CPU:       stubCPU{},
		GPU:       explodingGPU{},
		Memory:    stubMemory{},
		Network:   stubNetwork{},
		Processes: stubProcs{},
	}
	a := monitor.NewAssembler(sources, 5, nil, nil, monitor.WithTracerProvider(tp))
	for i := 0; i < 3; i++ {
		a.Assemble(context.Background())
	}

	assert.Equal(t, 5, testutil.CollectAndCount(e.spans.source), "one series per source")
	assert.Equal(t, 3.0, testutil.ToFloat64(e.spans.panics.WithLabelValues("gpu")))
	assert.Equal(t, 1, testutil.CollectAndCount(e.spans.panics), "healthy sources never count a panic")

	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "pulse_tick_duration_seconds_count 3")
	assert.Contains(t, body, `pulse_source_duration_seconds_count{source="processes"} 3`)
	assert.Contains(t, body, `pulse_source_panics_total{source="gpu"} 3`)
}

func TestSpanProcessor_IgnoresForeignSpans(t *testing.T) {
	e := New()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(e.SpanProcessor()))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("other").Start(context.Background(), "http.request")
	span.End()

	assert.Equal(t, 0, testutil.CollectAndCount(e.spans.source))
	assert.Equal(t, 0, testutil.CollectAndCount(e.spans.panics))
	assert.Equal(t, 1, testutil.CollectAndCount(e.spans.tick), "tick histogram exists but stays empty")

	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "pulse_tick_duration_seconds_count 0")
}
