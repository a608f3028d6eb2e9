package monitor

import (
	"context"
	"math"
	"time"

	"github.com/rileyhilliard/pulse/internal/exec"
	"github.com/rileyhilliard/pulse/internal/host"
	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/monitor/parsers"
)

// sysctl keys for the logical CPU count of each performance level.
// Level 0 is the performance cluster, level 1 the efficiency cluster.
const (
	PerfLevel0Key = "hw.perflevel0.logicalcpu"
	PerfLevel1Key = "hw.perflevel1.logicalcpu"
)

// DefaultCoreLayoutTimeout bounds each core-layout query.
const DefaultCoreLayoutTimeout = 2 * time.Second

// CoreLayout is the number of logical CPUs in each core class.
// Performance cores are assumed to be enumerated before efficiency cores.
type CoreLayout struct {
	PCount int
	ECount int
}

// DetectCoreLayout queries the host for its heterogeneous core split.
// A failed query counts as 0. When both classes come back 0 (query failure,
// or a host without performance levels) every logical CPU is a P core.
func DetectCoreLayout(ctx context.Context, runner exec.Runner, timeout time.Duration, logical int, log logger.Logger) CoreLayout {
	log = logger.OrNoop(log)
	if timeout <= 0 {
		timeout = DefaultCoreLayoutTimeout
	}

	query := func(key string) int {
		out, err := runner.Run(ctx, timeout, "sysctl", "-n", key)
		if err != nil {
			log.Debug("core layout query %s failed: %v", key, err)
			return 0
		}
		n, err := parsers.ParseCount(out)
		if err != nil {
			log.Debug("core layout query %s: %v", key, err)
			return 0
		}
		return n
	}

	layout := CoreLayout{PCount: query(PerfLevel0Key), ECount: query(PerfLevel1Key)}
	if layout.PCount == 0 && layout.ECount == 0 {
		return CoreLayout{PCount: logical}
	}
	return layout
}

// SplitCores splits per-core values into a P prefix and the E slice that
// follows it, each clamped to what perCore actually holds. Values beyond
// PCount+ECount belong to neither class. A zero layout puts every core in P.
// The returned slices are copies.
func SplitCores(perCore []float64, layout CoreLayout) (pCores, eCores []float64) {
	pEnd := layout.PCount
	if layout.PCount <= 0 && layout.ECount <= 0 {
		pEnd = len(perCore)
	}
	pEnd = clampIndex(pEnd, len(perCore))
	eEnd := clampIndex(pEnd+max(layout.ECount, 0), len(perCore))

	pCores = make([]float64, pEnd)
	copy(pCores, perCore[:pEnd])
	eCores = make([]float64, eEnd-pEnd)
	copy(eCores, perCore[pEnd:eEnd])
	return pCores, eCores
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// CPUSource samples processor load. The core layout is fixed at construction.
type CPUSource struct {
	stats   host.CPUStats
	layout  CoreLayout
	logical int
	log     logger.Logger
}

// NewCPUSource creates a CPU source and primes the host's percent counters,
// since the first delta-based read has no baseline.
func NewCPUSource(ctx context.Context, stats host.CPUStats, layout CoreLayout, log logger.Logger) *CPUSource {
	s := &CPUSource{stats: stats, layout: layout, log: logger.OrNoop(log)}

	if n, err := stats.LogicalCount(ctx); err == nil {
		s.logical = n
	}
	_, _ = stats.Percent(ctx, true)
	_, _ = stats.Percent(ctx, false)

	return s
}

// Layout returns the cached core layout.
func (s *CPUSource) Layout() CoreLayout {
	return s.layout
}

// Sample reads overall and per-core load. It never fails: a probe error
// yields zeros with Available false.
func (s *CPUSource) Sample(ctx context.Context) CPUReading {
	perCore, err := s.stats.Percent(ctx, true)
	if err != nil {
		s.log.Debug("per-core cpu read failed: %v", err)
		return s.unavailable()
	}
	overall, err := s.stats.Percent(ctx, false)
	if err != nil || len(overall) == 0 {
		s.log.Debug("overall cpu read failed: %v", err)
		return s.unavailable()
	}

	perCore = cloneFloats(perCore)
	for i := range perCore {
		perCore[i] = clampPercent(perCore[i])
	}
	return s.reading(clampPercent(overall[0]), perCore, true)
}

func (s *CPUSource) unavailable() CPUReading {
	return s.reading(0, make([]float64, s.logical), false)
}

func (s *CPUSource) reading(overall float64, perCore []float64, ok bool) CPUReading {
	pCores, eCores := SplitCores(perCore, s.layout)
	return CPUReading{
		Overall:   overall,
		PerCore:   perCore,
		PCores:    pCores,
		ECores:    eCores,
		PCount:    len(pCores),
		ECount:    len(eCores),
		Available: ok,
	}
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
