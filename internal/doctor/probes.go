package doctor

import (
	"context"
	"fmt"
	osexec "os/exec"
	"strings"
	"time"

	"github.com/rileyhilliard/pulse/internal/exec"
	"github.com/rileyhilliard/pulse/internal/monitor"
)

// lookPath is swapped in tests.
var lookPath = osexec.LookPath

// ProbeTools are the host tools pulse shells out to. None are required.
var ProbeTools = []string{"sysctl", "ioreg", "nvidia-smi"}

// NewProbeChecks returns the PROBES checks for the given host.
func NewProbeChecks(h monitor.Host, opts monitor.Options) []Check {
	checks := make([]Check, 0, len(ProbeTools)+2)
	for _, tool := range ProbeTools {
		checks = append(checks, &ToolCheck{Tool: tool})
	}
	checks = append(checks,
		&CoreLayoutCheck{Host: h, Timeout: opts.CoreLayoutTimeout},
		&GPUCheck{Runner: h.Runner, Timeout: opts.GPUTimeout},
	)
	return checks
}

// ToolCheck reports whether a probe tool is on PATH.
type ToolCheck struct {
	Tool string
}

func (c *ToolCheck) Name() string     { return "tool_" + strings.ReplaceAll(c.Tool, "-", "_") }
func (c *ToolCheck) Category() string { return CategoryProbes }
func (c *ToolCheck) Fix() error       { return nil }

func (c *ToolCheck) Run(context.Context) CheckResult {
	path, err := lookPath(c.Tool)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s not found", c.Tool),
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %s", c.Tool, path),
	}
}

// CoreLayoutCheck reports the detected performance/efficiency split.
type CoreLayoutCheck struct {
	Host    monitor.Host
	Timeout time.Duration
}

func (c *CoreLayoutCheck) Name() string     { return "core_layout" }
func (c *CoreLayoutCheck) Category() string { return CategoryProbes }
func (c *CoreLayoutCheck) Fix() error       { return nil }

func (c *CoreLayoutCheck) Run(ctx context.Context) CheckResult {
	logical, err := c.Host.CPU.LogicalCount(ctx)
	if err != nil {
		return sourceFailed(c.Name(), "CPU count", err)
	}

	layout := monitor.DetectCoreLayout(ctx, c.Host.Runner, c.Timeout, logical, nil)
	if layout.ECount == 0 {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("No efficiency cores reported, all %d cores shown as P", layout.PCount),
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Core layout: %d P + %d E", layout.PCount, layout.ECount),
	}
}

// GPUCheck takes one GPU sample.
type GPUCheck struct {
	Runner  exec.Runner
	Timeout time.Duration
}

func (c *GPUCheck) Name() string     { return "gpu" }
func (c *GPUCheck) Category() string { return CategoryProbes }
func (c *GPUCheck) Fix() error       { return nil }

func (c *GPUCheck) Run(ctx context.Context) CheckResult {
	reading := monitor.NewGPUSource(c.Runner, c.Timeout, nil).Sample(ctx)
	if !reading.Available {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "GPU utilization unavailable",
			Suggestion: "GPU shows N/A. Utilization needs ioreg (Apple Silicon) or nvidia-smi.",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("GPU %d%%", reading.Utilization),
	}
}

// NewAllChecks returns every check in category order.
func NewAllChecks(configPath string, h monitor.Host, opts monitor.Options) []Check {
	var checks []Check
	checks = append(checks, NewConfigChecks(configPath)...)
	checks = append(checks, NewSourceChecks(h)...)
	checks = append(checks, NewProbeChecks(h, opts)...)
	return checks
}
