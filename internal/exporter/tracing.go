package exporter

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	assembleSpan     = "monitor.assemble"
	sourceSpanPrefix = "monitor.source."
)

// tickBuckets covers a fast local tick up to a GPU probe running into its bound.
var tickBuckets = prometheus.ExponentialBuckets(0.001, 4, 8)

// SpanProcessor turns the monitor's tick spans into metrics: an assemble
// duration histogram plus per-source durations and panic counts.
type SpanProcessor struct {
	tick   prometheus.Histogram
	source *prometheus.HistogramVec
	panics *prometheus.CounterVec
}

var _ sdktrace.SpanProcessor = (*SpanProcessor)(nil)

func newSpanProcessor() *SpanProcessor {
	return &SpanProcessor{
		tick: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "tick_duration_seconds",
			Help:    "Time to assemble one snapshot.",
			Buckets: tickBuckets,
		}),
		source: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "source_duration_seconds",
			Help:    "Time one source took to sample.",
			Buckets: tickBuckets,
		}, []string{"source"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "source_panics_total",
			Help: "Samples that panicked and fell back to an unavailable reading.",
		}, []string{"source"}),
	}
}

// SpanProcessor returns the processor feeding the exporter's tracing metrics.
// Install it on the TracerProvider the poller records to.
func (e *Exporter) SpanProcessor() *SpanProcessor {
	return e.spans
}

// OnStart is a no-op; only finished spans carry durations.
func (p *SpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd records s if it is an assemble or source span.
func (p *SpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	seconds := s.EndTime().Sub(s.StartTime()).Seconds()
	name := s.Name()

	if name == assembleSpan {
		p.tick.Observe(seconds)
		return
	}
	source, ok := strings.CutPrefix(name, sourceSpanPrefix)
	if !ok {
		return
	}
	p.source.WithLabelValues(source).Observe(seconds)
	if s.Status().Code == codes.Error {
		p.panics.WithLabelValues(source).Inc()
	}
}

// Shutdown is a no-op; the metrics live as long as the registry.
func (p *SpanProcessor) Shutdown(context.Context) error { return nil }

// ForceFlush is a no-op; metrics are recorded synchronously in OnEnd.
func (p *SpanProcessor) ForceFlush(context.Context) error { return nil }
