package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pulse/internal/monitor"
	"github.com/rileyhilliard/pulse/internal/ui"
)

// swapShownGB is the swap usage above which the memory line mentions swap.
const swapShownGB = 0.1

// View renders the panel.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("pulse"))
	b.WriteString(m.status.Text())
	b.WriteString("\n\n")

	if m.snap == nil {
		b.WriteString(dimStyle.Render("Loading…"))
		b.WriteString("\n")
	} else {
		b.WriteString(Render(*m.snap))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Render draws the body of the panel for one snapshot.
func Render(snap monitor.Snapshot) string {
	sections := []string{
		renderStats(snap),
		renderNetwork(snap.Network),
	}
	if procs := renderProcesses(snap.Processes); procs != "" {
		sections = append(sections, procs)
	}
	return strings.Join(sections, separator+"\n")
}

func renderStats(snap monitor.Snapshot) string {
	var b strings.Builder

	if snap.CPU.Available {
		b.WriteString(statRow("CPU", ui.RenderProgressBar(snap.CPU.Overall, barWidth)))
		if detail := coreDetail(snap.CPU); detail != "" {
			b.WriteString(detailRow(detail))
		}
	} else {
		b.WriteString(statRow("CPU", ui.RenderUnavailableBar(barWidth)))
	}

	if snap.GPU.Available {
		b.WriteString(statRow("GPU", ui.RenderProgressBar(float64(snap.GPU.Utilization), barWidth)))
	} else {
		b.WriteString(statRow("GPU", ui.RenderUnavailableBar(barWidth)))
	}

	if snap.Memory.Available {
		b.WriteString(statRow("Memory", ui.RenderProgressBar(snap.Memory.Percent, barWidth)))
		b.WriteString(detailRow(memoryDetail(snap.Memory)))
	} else {
		b.WriteString(statRow("Memory", ui.RenderUnavailableBar(barWidth)))
	}

	return b.String()
}

// coreDetail summarizes the P/E split, or "" on homogeneous hosts.
func coreDetail(cpu monitor.CPUReading) string {
	if cpu.ECount == 0 {
		return ""
	}
	return fmt.Sprintf("%d P-cores %.0f%%  ·  %d E-cores %.0f%%",
		cpu.PCount, mean(cpu.PCores), cpu.ECount, mean(cpu.ECores))
}

func memoryDetail(mem monitor.MemoryReading) string {
	detail := fmt.Sprintf("%.1f / %.1f GB  ·  %s",
		monitor.BytesToGB(mem.UsedBytes), monitor.BytesToGB(mem.TotalBytes), mem.Pressure)
	if swap := monitor.BytesToGB(mem.SwapUsedBytes); swap > swapShownGB {
		detail += fmt.Sprintf("  ·  Swap %.1f GB", swap)
	}
	return detail
}

func renderNetwork(net monitor.NetworkReading) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Network"))
	b.WriteString("\n")

	down := ui.RenderRateSparkline(net.DownloadHistory, sparklineWidth, ui.ColorInfo)
	up := ui.RenderRateSparkline(net.UploadHistory, sparklineWidth, ui.ColorAccent)

	b.WriteString(fmt.Sprintf("%s %s ↓ %s\n", labelStyle.Render(""), down, net.DownloadHuman))
	b.WriteString(fmt.Sprintf("%s %s ↑ %s\n", labelStyle.Render(""), up, net.UploadHuman))
	return b.String()
}

func renderProcesses(procs []monitor.ProcessEntry) string {
	if len(procs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Processes"))
	b.WriteString("\n")
	for _, p := range procs {
		name := lipgloss.NewStyle().Width(procNameWidth + 2).Render(TruncateName(p.Name, procNameWidth))
		b.WriteString(fmt.Sprintf("%s %s\n", name, dimStyle.Render(fmt.Sprintf("%5.1f%%", p.CPUPercent))))
	}
	return b.String()
}

// TruncateName shortens names longer than max runes, marking the cut with …
func TruncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max]) + "…"
}

func statRow(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}

func detailRow(text string) string {
	return labelStyle.Render("") + dimStyle.Render(text) + "\n"
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
