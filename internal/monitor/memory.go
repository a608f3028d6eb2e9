package monitor

import (
	"context"
	"math"

	"github.com/rileyhilliard/pulse/internal/host"
	"github.com/rileyhilliard/pulse/internal/logger"
)

// Pressure band thresholds in used percent.
const (
	PressureWarningPercent  = 60.0
	PressureCriticalPercent = 80.0
)

// PressureFor maps used percent to a pressure band:
// below 60 normal, below 80 warning, otherwise critical. NaN has no band
// and maps to unavailable.
func PressureFor(percent float64) Pressure {
	switch {
	case math.IsNaN(percent):
		return PressureUnavailable
	case percent < PressureWarningPercent:
		return PressureNormal
	case percent < PressureCriticalPercent:
		return PressureWarning
	default:
		return PressureCritical
	}
}

// MemorySource samples RAM and swap usage.
type MemorySource struct {
	stats host.MemoryStats
	log   logger.Logger
}

// NewMemorySource creates a memory source.
func NewMemorySource(stats host.MemoryStats, log logger.Logger) *MemorySource {
	return &MemorySource{stats: stats, log: logger.OrNoop(log)}
}

// Sample reads current memory usage. Pressure is derived from this read;
// if RAM cannot be read the reading is unavailable rather than stale.
// A swap read failure reports zero swap.
func (s *MemorySource) Sample(ctx context.Context) MemoryReading {
	vm, err := s.stats.VirtualMemory(ctx)
	if err != nil {
		s.log.Debug("memory read failed: %v", err)
		return MemoryReading{}
	}
	if math.IsNaN(vm.UsedPercent) {
		s.log.Debug("memory read returned NaN used percent")
		return MemoryReading{}
	}

	sw, err := s.stats.SwapMemory(ctx)
	if err != nil {
		s.log.Debug("swap read failed: %v", err)
		sw = host.SwapMemory{}
	}

	return MemoryReading{
		TotalBytes:     vm.Total,
		UsedBytes:      vm.Used,
		AvailableBytes: vm.Available,
		Percent:        vm.UsedPercent,
		SwapTotalBytes: sw.Total,
		SwapUsedBytes:  sw.Used,
		SwapPercent:    sw.UsedPercent,
		Pressure:       PressureFor(vm.UsedPercent),
		Available:      true,
	}
}
