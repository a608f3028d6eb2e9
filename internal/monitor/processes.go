package monitor

import (
	"context"
	"sort"

	"github.com/rileyhilliard/pulse/internal/host"
	"github.com/rileyhilliard/pulse/internal/logger"
)

// DefaultTopProcesses is how many processes a snapshot lists.
const DefaultTopProcesses = 5

// ProcessSource ranks live processes by CPU usage.
type ProcessSource struct {
	lister host.ProcessLister
	log    logger.Logger
}

// NewProcessSource creates a process source.
func NewProcessSource(lister host.ProcessLister, log logger.Logger) *ProcessSource {
	return &ProcessSource{lister: lister, log: logger.OrNoop(log)}
}

// Top returns up to n processes with strictly positive CPU usage, busiest
// first. Ties keep enumeration order. Processes that exit or deny access
// mid-enumeration are skipped.
func (s *ProcessSource) Top(ctx context.Context, n int) []ProcessEntry {
	entries := []ProcessEntry{}
	if n <= 0 {
		return entries
	}

	procs, err := s.lister.Processes(ctx)
	if err != nil {
		s.log.Debug("process enumeration failed: %v", err)
		return entries
	}

	skipped := 0
	for _, p := range procs {
		pct, err := p.CPUPercent(ctx)
		if err != nil {
			skipped++
			continue
		}
		if !(pct > 0) {
			continue
		}
		name, err := p.Name(ctx)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, ProcessEntry{Name: name, CPUPercent: pct})
	}
	if skipped > 0 {
		s.log.Debug("skipped %d inaccessible processes", skipped)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CPUPercent > entries[j].CPUPercent
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
