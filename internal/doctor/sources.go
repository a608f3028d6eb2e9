package doctor

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/pulse/internal/host"
	"github.com/rileyhilliard/pulse/internal/monitor"
)

// NewSourceChecks returns one SOURCES check per host capability.
func NewSourceChecks(h monitor.Host) []Check {
	return []Check{
		&CPUCheck{Stats: h.CPU},
		&MemoryCheck{Stats: h.Memory},
		&NetworkCheck{Stats: h.Network},
		&ProcessCheck{Lister: h.Processes},
	}
}

// CPUCheck verifies per-core utilization can be read.
type CPUCheck struct {
	Stats host.CPUStats
}

func (c *CPUCheck) Name() string     { return "cpu" }
func (c *CPUCheck) Category() string { return CategorySources }
func (c *CPUCheck) Fix() error       { return nil }

func (c *CPUCheck) Run(ctx context.Context) CheckResult {
	logical, err := c.Stats.LogicalCount(ctx)
	if err != nil {
		return sourceFailed(c.Name(), "CPU count", err)
	}
	if _, err := c.Stats.Percent(ctx, true); err != nil {
		return sourceFailed(c.Name(), "CPU usage", err)
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("CPU: %d logical cores", logical),
	}
}

// MemoryCheck verifies RAM and swap can be read.
type MemoryCheck struct {
	Stats host.MemoryStats
}

func (c *MemoryCheck) Name() string     { return "memory" }
func (c *MemoryCheck) Category() string { return CategorySources }
func (c *MemoryCheck) Fix() error       { return nil }

func (c *MemoryCheck) Run(ctx context.Context) CheckResult {
	vm, err := c.Stats.VirtualMemory(ctx)
	if err != nil {
		return sourceFailed(c.Name(), "memory", err)
	}
	if _, err := c.Stats.SwapMemory(ctx); err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "Swap unreadable, reported as zero",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Memory: %.1f GB total", monitor.BytesToGB(vm.Total)),
	}
}

// NetworkCheck verifies interface byte counters can be read.
type NetworkCheck struct {
	Stats host.NetStats
}

func (c *NetworkCheck) Name() string     { return "network" }
func (c *NetworkCheck) Category() string { return CategorySources }
func (c *NetworkCheck) Fix() error       { return nil }

func (c *NetworkCheck) Run(ctx context.Context) CheckResult {
	if _, err := c.Stats.NetCounters(ctx); err != nil {
		return sourceFailed(c.Name(), "network counters", err)
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Network counters readable",
	}
}

// ProcessCheck verifies processes can be enumerated.
type ProcessCheck struct {
	Lister host.ProcessLister
}

func (c *ProcessCheck) Name() string     { return "processes" }
func (c *ProcessCheck) Category() string { return CategorySources }
func (c *ProcessCheck) Fix() error       { return nil }

func (c *ProcessCheck) Run(ctx context.Context) CheckResult {
	procs, err := c.Lister.Processes(ctx)
	if err != nil {
		return sourceFailed(c.Name(), "process list", err)
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Processes: %d visible", len(procs)),
	}
}

func sourceFailed(name, what string, err error) CheckResult {
	return CheckResult{
		Name:       name,
		Status:     StatusFail,
		Message:    fmt.Sprintf("Can't read %s: %v", what, err),
		Suggestion: "pulse will show N/A for this metric. Check permissions or sandboxing.",
	}
}
