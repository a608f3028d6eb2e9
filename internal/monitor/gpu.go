package monitor

import (
	"context"
	"time"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/exec"
	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/monitor/parsers"
)

// DefaultGPUTimeout bounds one GPU sample across all probes.
const DefaultGPUTimeout = 3 * time.Second

// GPUProbe is a host tool invocation that may report GPU utilization.
type GPUProbe struct {
	Name  string
	Args  []string
	Parse func(output string) (int, bool)
}

// DefaultGPUProbes are tried in order until one yields a value.
var DefaultGPUProbes = []GPUProbe{
	{
		Name:  "ioreg",
		Args:  []string{"-r", "-d", "1", "-c", "AGXAccelerator"},
		Parse: parsers.ParseIORegUtilization,
	},
	{
		Name:  "nvidia-smi",
		Args:  []string{"--query-gpu=utilization.gpu", "--format=csv,noheader,nounits"},
		Parse: parsers.ParseNvidiaSMIUtilization,
	},
}

// GPUSource samples GPU utilization through host tools.
type GPUSource struct {
	runner  exec.Runner
	probes  []GPUProbe
	timeout time.Duration
	log     logger.Logger
}

// NewGPUSource creates a GPU source using DefaultGPUProbes.
// A non-positive timeout uses DefaultGPUTimeout.
func NewGPUSource(runner exec.Runner, timeout time.Duration, log logger.Logger) *GPUSource {
	return NewGPUSourceWithProbes(runner, DefaultGPUProbes, timeout, log)
}

// NewGPUSourceWithProbes creates a GPU source with an explicit probe list.
func NewGPUSourceWithProbes(runner exec.Runner, probes []GPUProbe, timeout time.Duration, log logger.Logger) *GPUSource {
	if timeout <= 0 {
		timeout = DefaultGPUTimeout
	}
	return &GPUSource{runner: runner, probes: probes, timeout: timeout, log: logger.OrNoop(log)}
}

// Sample returns the first utilization any probe reports. All probes share
// one timeout budget; a tool failure, parse miss, or timeout yields an
// unavailable reading.
func (s *GPUSource) Sample(ctx context.Context) GPUReading {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	deadline, _ := ctx.Deadline()

	for _, probe := range s.probes {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			s.log.Debug("gpu probe budget exhausted before %s", probe.Name)
			break
		}

		out, err := s.runner.Run(ctx, remaining, probe.Name, probe.Args...)
		if err != nil {
			if errors.IsTimeout(err) {
				s.log.Debug("gpu probe %s timed out", probe.Name)
				break
			}
			s.log.Debug("gpu probe %s failed: %v", probe.Name, err)
			continue
		}

		if util, ok := probe.Parse(out); ok {
			return GPUReading{Utilization: util, Available: true}
		}
		s.log.Debug("gpu probe %s: no recognized counter", probe.Name)
	}

	return GPUReading{}
}
