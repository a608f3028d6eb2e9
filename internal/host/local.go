package host

import (
	"context"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Local reads telemetry from the machine pulse runs on.
type Local struct {
	// Process handles are kept across enumerations so CPU percent is measured
	// over the interval since the previous enumeration, not process lifetime.
	mu    sync.Mutex
	procs map[int32]*process.Process
}

// NewLocal creates a Local host.
func NewLocal() *Local {
	return &Local{procs: make(map[int32]*process.Process)}
}

var (
	_ CPUStats      = (*Local)(nil)
	_ MemoryStats   = (*Local)(nil)
	_ NetStats      = (*Local)(nil)
	_ ProcessLister = (*Local)(nil)
)

// Percent implements CPUStats. An interval of zero makes gopsutil compare
// against its previous call.
func (l *Local) Percent(ctx context.Context, perCPU bool) ([]float64, error) {
	return cpu.PercentWithContext(ctx, 0, perCPU)
}

// LogicalCount implements CPUStats.
func (l *Local) LogicalCount(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, true)
}

// VirtualMemory implements MemoryStats.
func (l *Local) VirtualMemory(ctx context.Context) (VirtualMemory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return VirtualMemory{}, err
	}
	return VirtualMemory{
		Total:       vm.Total,
		Used:        vm.Used,
		Available:   vm.Available,
		UsedPercent: vm.UsedPercent,
	}, nil
}

// SwapMemory implements MemoryStats.
func (l *Local) SwapMemory(ctx context.Context) (SwapMemory, error) {
	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return SwapMemory{}, err
	}
	return SwapMemory{
		Total:       sw.Total,
		Used:        sw.Used,
		UsedPercent: sw.UsedPercent,
	}, nil
}

// NetCounters implements NetStats, summing all interfaces.
func (l *Local) NetCounters(ctx context.Context) (NetCounters, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return NetCounters{}, err
	}
	if len(counters) == 0 {
		return NetCounters{}, nil
	}
	return NetCounters{
		BytesRecv: counters[0].BytesRecv,
		BytesSent: counters[0].BytesSent,
	}, nil
}

// Processes implements ProcessLister. Handles for exited PIDs are dropped.
func (l *Local) Processes(ctx context.Context) ([]Process, error) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	live := make(map[int32]*process.Process, len(pids))
	out := make([]Process, 0, len(pids))
	for _, pid := range pids {
		p, ok := l.procs[pid]
		if !ok {
			p, err = process.NewProcessWithContext(ctx, pid)
			if err != nil {
				// Exited between listing and open.
				continue
			}
		}
		live[pid] = p
		out = append(out, localProcess{p: p})
	}
	l.procs = live

	return out, nil
}

// localProcess adapts *process.Process to Process.
type localProcess struct {
	p *process.Process
}

func (lp localProcess) Name(ctx context.Context) (string, error) {
	return lp.p.NameWithContext(ctx)
}

func (lp localProcess) CPUPercent(ctx context.Context) (float64, error) {
	return lp.p.PercentWithContext(ctx, 0)
}
