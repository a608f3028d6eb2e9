package monitor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/pulse/internal/host"
	"github.com/rileyhilliard/pulse/internal/logger"
)

const tracerName = "github.com/rileyhilliard/pulse/internal/monitor"

// CPUSampler produces a CPU reading.
type CPUSampler interface {
	Sample(ctx context.Context) CPUReading
}

// GPUSampler produces a GPU reading.
type GPUSampler interface {
	Sample(ctx context.Context) GPUReading
}

// MemorySampler produces a memory reading.
type MemorySampler interface {
	Sample(ctx context.Context) MemoryReading
}

// NetworkSampler produces a network reading. Unavailable is used when
// Sample panics, so the snapshot still carries the histories.
type NetworkSampler interface {
	Sample(ctx context.Context) NetworkReading
	Unavailable() NetworkReading
}

// ProcessRanker lists the busiest processes.
type ProcessRanker interface {
	Top(ctx context.Context, n int) []ProcessEntry
}

// Sources is the set of metric sources one Assembler reads.
type Sources struct {
	CPU       CPUSampler
	GPU       GPUSampler
	Memory    MemorySampler
	Network   NetworkSampler
	Processes ProcessRanker
}

// Assembler samples every source once and merges the readings.
type Assembler struct {
	sources Sources
	topN    int
	clock   host.Clock
	tracer  trace.Tracer
	log     logger.Logger
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithTracerProvider records assemble and source spans on tp instead of the
// global provider. A nil tp keeps the global one.
func WithTracerProvider(tp trace.TracerProvider) AssemblerOption {
	return func(a *Assembler) {
		if tp != nil {
			a.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewAssembler creates an assembler listing topN processes per snapshot.
func NewAssembler(sources Sources, topN int, clock host.Clock, log logger.Logger, opts ...AssemblerOption) *Assembler {
	if clock == nil {
		clock = host.SystemClock{}
	}
	a := &Assembler{
		sources: sources,
		topN:    topN,
		clock:   clock,
		tracer:  otel.Tracer(tracerName),
		log:     logger.OrNoop(log),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds one snapshot. Sources run concurrently, except that top
// processes are ranked after CPU in the same goroutine because both read the
// same measurement window. A panicking source contributes its unavailable
// reading. The returned snapshot has no Sequence; the Poller assigns it.
func (a *Assembler) Assemble(ctx context.Context) Snapshot {
	ctx, span := a.tracer.Start(ctx, "monitor.assemble")
	defer span.End()

	snap := Snapshot{Timestamp: a.clock.Now(), Processes: []ProcessEntry{}}

	var g errgroup.Group

	g.Go(func() error {
		a.guard(ctx, "cpu", func(ctx context.Context) {
			snap.CPU = a.sources.CPU.Sample(ctx)
		}, func() { snap.CPU = CPUReading{PerCore: []float64{}, PCores: []float64{}, ECores: []float64{}} })

		a.guard(ctx, "processes", func(ctx context.Context) {
			snap.Processes = a.sources.Processes.Top(ctx, a.topN)
		}, func() { snap.Processes = []ProcessEntry{} })
		return nil
	})

	g.Go(func() error {
		a.guard(ctx, "gpu", func(ctx context.Context) {
			snap.GPU = a.sources.GPU.Sample(ctx)
		}, func() { snap.GPU = GPUReading{} })
		return nil
	})

	g.Go(func() error {
		a.guard(ctx, "memory", func(ctx context.Context) {
			snap.Memory = a.sources.Memory.Sample(ctx)
		}, func() { snap.Memory = MemoryReading{} })
		return nil
	})

	g.Go(func() error {
		a.guard(ctx, "network", func(ctx context.Context) {
			snap.Network = a.sources.Network.Sample(ctx)
		}, func() { snap.Network = a.sources.Network.Unavailable() })
		return nil
	})

	_ = g.Wait()

	span.SetAttributes(
		attribute.Bool("cpu.available", snap.CPU.Available),
		attribute.Bool("gpu.available", snap.GPU.Available),
		attribute.Bool("memory.available", snap.Memory.Available),
		attribute.Bool("network.available", snap.Network.Available),
		attribute.Int("processes", len(snap.Processes)),
	)
	return snap
}

// guard runs sample inside its own span and recovers a panic, applying
// fallback so the field still holds an unavailable reading.
func (a *Assembler) guard(ctx context.Context, name string, sample func(context.Context), fallback func()) {
	ctx, span := a.tracer.Start(ctx, "monitor.source."+name)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("source %s panicked: %v", name, r)
			a.log.Warn("%v", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			fallback()
		}
	}()

	sample(ctx)
}
