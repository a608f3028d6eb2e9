package monitor

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/rileyhilliard/pulse/internal/exec"
	"github.com/rileyhilliard/pulse/internal/host"
	"github.com/rileyhilliard/pulse/internal/logger"
)

// Options configures a poller built by NewHostPoller.
type Options struct {
	Interval          time.Duration
	HistoryLen        int
	TopProcesses      int
	GPUTimeout        time.Duration
	CoreLayoutTimeout time.Duration
	// TracerProvider receives the per-tick spans. Nil uses the global provider.
	TracerProvider    trace.TracerProvider
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		Interval:          DefaultInterval,
		HistoryLen:        DefaultHistoryLen,
		TopProcesses:      DefaultTopProcesses,
		GPUTimeout:        DefaultGPUTimeout,
		CoreLayoutTimeout: DefaultCoreLayoutTimeout,
	}
}

// Host bundles the capabilities the sources read from.
type Host struct {
	CPU       host.CPUStats
	Memory    host.MemoryStats
	Network   host.NetStats
	Processes host.ProcessLister
	Runner    exec.Runner
	Clock     host.Clock
}

// LocalHost returns capabilities for the machine pulse runs on.
func LocalHost() Host {
	local := host.NewLocal()
	return Host{
		CPU:       local,
		Memory:    local,
		Network:   local,
		Processes: local,
		Runner:    exec.NewLocalRunner(),
		Clock:     host.SystemClock{},
	}
}

// NewSources builds the five metric sources over h. Core layout detection
// runs here, once.
func NewSources(ctx context.Context, h Host, opts Options, log logger.Logger) Sources {
	log = logger.OrNoop(log)

	logical, err := h.CPU.LogicalCount(ctx)
	if err != nil {
		log.Debug("logical cpu count unavailable: %v", err)
	}
	layout := DetectCoreLayout(ctx, h.Runner, opts.CoreLayoutTimeout, logical, log)
	log.Debug("core layout: %d P, %d E", layout.PCount, layout.ECount)

	return Sources{
		CPU:       NewCPUSource(ctx, h.CPU, layout, log),
		GPU:       NewGPUSource(h.Runner, opts.GPUTimeout, log),
		Memory:    NewMemorySource(h.Memory, log),
		Network:   NewNetworkSource(h.Network, h.Clock, opts.HistoryLen, log),
		Processes: NewProcessSource(h.Processes, log),
	}
}

// NewHostPoller wires sources over h into a stopped poller.
func NewHostPoller(ctx context.Context, h Host, opts Options, log logger.Logger) (*Poller, error) {
	topN := opts.TopProcesses
	if topN < 0 {
		topN = DefaultTopProcesses
	}
	assembler := NewAssembler(NewSources(ctx, h, opts, log), topN, h.Clock, log,
		WithTracerProvider(opts.TracerProvider))
	return NewPoller(assembler, opts.Interval, log)
}
