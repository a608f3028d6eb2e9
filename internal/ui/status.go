package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pulse/internal/monitor"
)

// DisplayMode selects which metrics the status indicator shows.
type DisplayMode string

const (
	DisplayCPU    DisplayMode = "cpu"
	DisplayCPUMem DisplayMode = "cpu+mem"
	DisplayCPUGPU DisplayMode = "cpu+gpu"
	DisplayAll    DisplayMode = "all"
)

// DisplayModes lists the valid modes in menu order.
var DisplayModes = []DisplayMode{DisplayCPU, DisplayCPUMem, DisplayCPUGPU, DisplayAll}

// ParseDisplayMode validates a mode name.
func ParseDisplayMode(s string) (DisplayMode, error) {
	for _, m := range DisplayModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown display mode %q (want one of cpu, cpu+mem, cpu+gpu, all)", s)
}

// StatusPlaceholder is shown before the first snapshot arrives.
const StatusPlaceholder = " — "

// statusSparklineWidth is the number of CPU samples in the status sparkline.
const statusSparklineWidth = 10

// StatusText formats a snapshot as the status indicator, e.g. " 42% ".
// Extra metrics depend on mode; unavailable ones read N/A. The CPU figure is
// colored by load.
func StatusText(snap monitor.Snapshot, mode DisplayMode) string {
	parts := []string{renderCPUPercent(snap.CPU)}

	if mode == DisplayCPUMem || mode == DisplayAll {
		parts = append(parts, "MEM "+percentOrNA(snap.Memory.Percent, snap.Memory.Available))
	}
	if mode == DisplayCPUGPU || mode == DisplayAll {
		parts = append(parts, "GPU "+percentOrNA(float64(snap.GPU.Utilization), snap.GPU.Available))
	}
	if mode == DisplayAll {
		parts = append(parts, "↓ "+snap.Network.DownloadHuman)
	}

	return " " + strings.Join(parts, "  ") + " "
}

func renderCPUPercent(cpu monitor.CPUReading) string {
	if !cpu.Available {
		return lipgloss.NewStyle().Foreground(ColorMuted).Render(monitor.Unavailable)
	}
	return lipgloss.NewStyle().Foreground(LoadColor(cpu.Overall)).Render(fmt.Sprintf("%3.0f%%", cpu.Overall))
}

func percentOrNA(percent float64, ok bool) string {
	if !ok {
		return monitor.Unavailable
	}
	return fmt.Sprintf("%.0f%%", percent)
}

// StatusIndicator tracks the latest snapshot for a status line. It is safe
// to Update from a poller subscriber while another goroutine reads Text.
type StatusIndicator struct {
	mu        sync.RWMutex
	mode      DisplayMode
	sparkline bool
	snap      *monitor.Snapshot
	cpu       *monitor.RollingHistory
}

// NewStatusIndicator creates an indicator with no snapshot yet.
func NewStatusIndicator(mode DisplayMode, sparkline bool) *StatusIndicator {
	return &StatusIndicator{
		mode:      mode,
		sparkline: sparkline,
		cpu:       monitor.NewRollingHistory(statusSparklineWidth),
	}
}

// Update records snap. Its signature matches monitor.Subscriber.
func (s *StatusIndicator) Update(snap monitor.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = &snap
	if snap.CPU.Available {
		s.cpu.Push(snap.CPU.Overall)
	}
	return nil
}

// NextDisplayMode returns the mode after m in menu order, wrapping around.
// An unknown mode starts over at cpu.
func NextDisplayMode(m DisplayMode) DisplayMode {
	for i, mode := range DisplayModes {
		if mode == m {
			return DisplayModes[(i+1)%len(DisplayModes)]
		}
	}
	return DisplayCPU
}

// Mode returns the current display mode.
func (s *StatusIndicator) Mode() DisplayMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// CycleMode advances to the next display mode and returns it.
func (s *StatusIndicator) CycleMode() DisplayMode {
	next := NextDisplayMode(s.Mode())
	s.SetMode(next)
	return next
}

// SetMode changes the display mode.
func (s *StatusIndicator) SetMode(mode DisplayMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// ToggleSparkline flips the CPU sparkline and returns the new setting.
func (s *StatusIndicator) ToggleSparkline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sparkline = !s.sparkline
	return s.sparkline
}

// Text renders the current status line.
func (s *StatusIndicator) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return StatusPlaceholder
	}
	text := StatusText(*s.snap, s.mode)
	if s.sparkline {
		text += RenderSparkline(s.cpu.Values(), statusSparklineWidth) + " "
	}
	return text
}
