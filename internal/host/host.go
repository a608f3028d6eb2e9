// Package host defines the host-telemetry capabilities the metric sources
// read from, and a gopsutil-backed implementation for the local machine.
package host

import (
	"context"
	"time"
)

// CPUStats reports processor utilization.
type CPUStats interface {
	// Percent returns utilization since the previous call: one value when
	// perCPU is false, otherwise one value per logical CPU in enumeration order.
	Percent(ctx context.Context, perCPU bool) ([]float64, error)
	// LogicalCount returns the number of logical CPUs.
	LogicalCount(ctx context.Context) (int, error)
}

// VirtualMemory is a point-in-time RAM reading in bytes.
type VirtualMemory struct {
	Total       uint64
	Used        uint64
	Available   uint64
	UsedPercent float64
}

// SwapMemory is a point-in-time swap reading in bytes.
type SwapMemory struct {
	Total       uint64
	Used        uint64
	UsedPercent float64
}

// MemoryStats reports RAM and swap usage.
type MemoryStats interface {
	VirtualMemory(ctx context.Context) (VirtualMemory, error)
	SwapMemory(ctx context.Context) (SwapMemory, error)
}

// NetCounters holds cumulative byte totals across all interfaces.
type NetCounters struct {
	BytesRecv uint64
	BytesSent uint64
}

// NetStats reports network byte totals.
type NetStats interface {
	NetCounters(ctx context.Context) (NetCounters, error)
}

// Process is a live process handle. Either method may fail if the process
// exits or becomes inaccessible between enumeration and the read.
type Process interface {
	Name(ctx context.Context) (string, error)
	CPUPercent(ctx context.Context) (float64, error)
}

// ProcessLister enumerates live processes.
type ProcessLister interface {
	Processes(ctx context.Context) ([]Process, error)
}

// Clock supplies timestamps. Values from time.Now carry a monotonic reading,
// so Sub between them is immune to wall-clock steps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
