// Package testing provides test doubles for the host package.
package testing

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rileyhilliard/pulse/internal/host"
)

// FakeHost is a scripted host. Every field can be changed between calls;
// all access is guarded so the poll loop and the test can share it.
type FakeHost struct {
	mu sync.Mutex

	Overall    float64
	PerCore    []float64
	Logical    int
	CPUErr     error
	Virtual    host.VirtualMemory
	Swap       host.SwapMemory
	MemErr     error
	Counters   host.NetCounters
	NetErr     error
	Procs      []host.Process
	ProcErr    error
	PercentHit int // number of Percent calls, for assertions
}

// NewFakeHost creates a fake host with the given logical CPU count.
func NewFakeHost(logical int) *FakeHost {
	return &FakeHost{
		Logical: logical,
		PerCore: make([]float64, logical),
	}
}

var (
	_ host.CPUStats      = (*FakeHost)(nil)
	_ host.MemoryStats   = (*FakeHost)(nil)
	_ host.NetStats      = (*FakeHost)(nil)
	_ host.ProcessLister = (*FakeHost)(nil)
)

// Set runs fn with the fake locked, for updating several fields at once.
func (f *FakeHost) Set(fn func(f *FakeHost)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// Percent implements host.CPUStats.
func (f *FakeHost) Percent(_ context.Context, perCPU bool) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PercentHit++
	if f.CPUErr != nil {
		return nil, f.CPUErr
	}
	if !perCPU {
		return []float64{f.Overall}, nil
	}
	out := make([]float64, len(f.PerCore))
	copy(out, f.PerCore)
	return out, nil
}

// LogicalCount implements host.CPUStats.
func (f *FakeHost) LogicalCount(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Logical, nil
}

// VirtualMemory implements host.MemoryStats.
func (f *FakeHost) VirtualMemory(context.Context) (host.VirtualMemory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Virtual, f.MemErr
}

// SwapMemory implements host.MemoryStats.
func (f *FakeHost) SwapMemory(context.Context) (host.SwapMemory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Swap, f.MemErr
}

// NetCounters implements host.NetStats.
func (f *FakeHost) NetCounters(context.Context) (host.NetCounters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Counters, f.NetErr
}

// AddTraffic advances the cumulative counters.
func (f *FakeHost) AddTraffic(recv, sent uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Counters.BytesRecv += recv
	f.Counters.BytesSent += sent
}

// Processes implements host.ProcessLister.
func (f *FakeHost) Processes(context.Context) ([]host.Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ProcErr != nil {
		return nil, f.ProcErr
	}
	out := make([]host.Process, len(f.Procs))
	copy(out, f.Procs)
	return out, nil
}

// FakeProcess is a scripted process. Err, when set, is returned by both
// methods, simulating a process that exited or denies access.
type FakeProcess struct {
	ProcName string
	Percent  float64
	Err      error
}

// Name implements host.Process.
func (p FakeProcess) Name(context.Context) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	return p.ProcName, nil
}

// CPUPercent implements host.Process.
func (p FakeProcess) CPUPercent(context.Context) (float64, error) {
	if p.Err != nil {
		return 0, p.Err
	}
	return p.Percent, nil
}

// Procs builds fake processes named p0..pN with the given percentages.
func Procs(percents ...float64) []host.Process {
	out := make([]host.Process, len(percents))
	for i, pct := range percents {
		out[i] = FakeProcess{ProcName: "p" + strconv.Itoa(i), Percent: pct}
	}
	return out
}

// FakeClock is a manually advanced clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a clock starting at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now implements host.Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward (or backward, for negative d).
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
