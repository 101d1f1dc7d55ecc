package ui

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/sysdash/internal/format"
	"github.com/Dicklesworthstone/sysdash/internal/model"
)

// Layout limits.
const (
	// MaxCoreGrid is the largest core count that still gets a per-core grid.
	MaxCoreGrid = 16
	// CoreGridColumns is how many cores share one grid row.
	CoreGridColumns = 8
	// MaxDisks is how many filesystems the storage section lists.
	MaxDisks = 4
	// MaxSparkWidth caps history sparklines.
	MaxSparkWidth = 30

	title    = "SYSTEM MONITOR"
	subtitle = "live host metrics"
)

var borderCorners = []string{"◢", "◣", "◤", "◥"}

// Styles
var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	subtitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	valueStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	cpuTitle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	memTitle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	diskTitle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	gpuTitle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
)

// Render draws a whole frame for snapshot s at the given width. frame only
// picks the header corner glyph.
func Render(s model.Snapshot, width, frame int) string {
	if width < 1 {
		width = 1
	}
	var lines []string
	lines = append(lines, header(width, frame)...)
	lines = append(lines, cpuSection(s.CPU, width)...)
	lines = append(lines, memorySection(s.Memory, width)...)
	lines = append(lines, storageSection(s.Disks, width)...)
	lines = append(lines, gpuSection(s.GPUs, width)...)
	lines = append(lines, footer(s, width)...)
	return strings.Join(lines, "\n")
}

func header(width, frame int) []string {
	corner := borderCorners[((frame%len(borderCorners))+len(borderCorners))%len(borderCorners)]
	inner := max(width-2, 0)
	border := corner + strings.Repeat("═", inner) + corner

	return []string{
		headerStyle.Render(border),
		headerStyle.Render("║") + headerStyle.Render(center(title, inner)) + headerStyle.Render("║"),
		headerStyle.Render("║") + subtitleStyle.Render(center(subtitle, inner)) + headerStyle.Render("║"),
		headerStyle.Render(border),
	}
}

func sectionTitle(style lipgloss.Style, name string, width int) []string {
	return []string{
		"",
		style.Render(name),
		strings.Repeat("─", max(width/2, 1)),
	}
}

func cpuSection(c model.CPU, width int) []string {
	lines := sectionTitle(cpuTitle, "CPU PERFORMANCE", width)
	lines = append(lines,
		"Overall Usage: "+format.Percent("%6.1f%%", c.Total),
		"["+format.ProgressBar(c.Total, max(width/3, 1))+"]",
	)
	if len(c.History) > 0 {
		lines = append(lines, "History: "+format.Sparkline(c.History, sparkWidth(width)))
	}
	lines = append(lines, fmt.Sprintf("Cores: %s | Threads: %s | Frequency: %s",
		valueStyle.Render(fmt.Sprintf("%d physical", c.Physical)),
		valueStyle.Render(fmt.Sprintf("%d", c.Logical)),
		valueStyle.Render(fmt.Sprintf("%.0f MHz", c.FreqMHz))))

	if n := len(c.PerCore); n > 0 && n <= MaxCoreGrid {
		lines = append(lines, coreGrid(c.PerCore)...)
	}
	return lines
}

func coreGrid(cores []float64) []string {
	const label = "Per Core: "
	var rows []string
	for start := 0; start < len(cores); start += CoreGridColumns {
		end := min(start+CoreGridColumns, len(cores))
		cells := make([]string, 0, end-start)
		for _, pct := range cores[start:end] {
			cells = append(cells, format.Percent("%4.0f%%", pct))
		}
		prefix := label
		if start > 0 {
			prefix = strings.Repeat(" ", len(label))
		}
		rows = append(rows, prefix+strings.Join(cells, " "))
	}
	return rows
}

func memorySection(m model.Memory, width int) []string {
	lines := sectionTitle(memTitle, "MEMORY STATUS", width)
	lines = append(lines,
		fmt.Sprintf("RAM Usage: %s (%s / %s)",
			format.Percent("%6.1f%%", m.Percent),
			format.HumanBytes(m.UsedBytes), format.HumanBytes(m.TotalBytes)),
		"["+format.ProgressBar(m.Percent, max(width/3, 1))+"]",
	)
	if len(m.History) > 0 {
		lines = append(lines, "History: "+format.Sparkline(m.History, sparkWidth(width)))
	}
	lines = append(lines, "Available: "+valueStyle.Render(format.HumanBytes(m.AvailableBytes)))
	if m.SwapTotal > 0 {
		lines = append(lines, fmt.Sprintf("Swap: %s (%s / %s)",
			format.Percent("%5.1f%%", m.SwapPercent),
			format.HumanBytes(m.SwapUsed), format.HumanBytes(m.SwapTotal)))
	}
	return lines
}

func storageSection(disks []model.Disk, width int) []string {
	lines := sectionTitle(diskTitle, "STORAGE OVERVIEW", width)
	if len(disks) == 0 {
		return append(lines, format.Dim("No storage devices found"))
	}
	for _, d := range disks[:min(len(disks), MaxDisks)] {
		lines = append(lines,
			valueStyle.Render(deviceName(d.Device))+" → "+format.Dim(shortMount(d.Mountpoint)),
			fmt.Sprintf("Usage: %s (%s / %s)",
				format.Percent("%5.1f%%", d.Percent),
				format.HumanBytes(d.UsedBytes), format.HumanBytes(d.TotalBytes)),
			"["+format.ProgressBar(d.Percent, max(width/4, 1))+"] Free: "+format.HumanBytes(d.FreeBytes),
			"",
		)
	}
	return lines
}

func gpuSection(gpus []model.GPU, width int) []string {
	lines := sectionTitle(gpuTitle, "GPU PERFORMANCE", width)
	if len(gpus) == 0 {
		return append(lines,
			format.Dim("No compatible GPU detected"),
			format.Dim("Install nvidia-smi for NVIDIA GPU monitoring"))
	}
	for _, g := range gpus {
		lines = append(lines,
			valueStyle.Render(g.Name),
			"Usage: "+format.Percent("%5.1f%%", g.Util),
			"["+format.ProgressBar(g.Util, max(width/4, 1))+"]",
		)
		if g.TempC > 0 {
			lines = append(lines, "Temperature: "+
				format.TempLevel(g.TempC).Style().Render(fmt.Sprintf("%.0f°C", g.TempC)))
		}
		if g.MemTotalMB > 0 {
			lines = append(lines, fmt.Sprintf("VRAM: %s (%.0f MB / %.0f MB)",
				format.Percent("%5.1f%%", g.MemPercent()), g.MemUsedMB, g.MemTotalMB))
		}
	}
	return lines
}

func footer(s model.Snapshot, width int) []string {
	uptime := "Unknown"
	if !s.BootTime.IsZero() {
		uptime = format.Uptime(s.Uptime())
	}
	rule := headerStyle.Render(strings.Repeat("═", width))
	return []string{
		"",
		rule,
		format.Dim(fmt.Sprintf("Last Update: %s | Uptime: %s | Press Ctrl+C to exit",
			s.Timestamp.Format("2006-01-02 15:04:05"), uptime)),
		rule,
	}
}

// Helpers
func sparkWidth(width int) int {
	return min(max(width/4, 1), MaxSparkWidth)
}

func center(s string, width int) string {
	s = truncate(s, width)
	n := len([]rune(s))
	left := max((width-n)/2, 0)
	right := max(width-left-n, 0)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	return string(r[:n])
}

func deviceName(dev string) string {
	if strings.Contains(dev, "/") {
		return path.Base(dev)
	}
	return dev
}

// shortMount keeps long mount points readable by showing their tail.
func shortMount(mp string) string {
	r := []rune(mp)
	if len(r) < 20 {
		return mp
	}
	return "..." + string(r[len(r)-17:])
}
