// Package format turns raw readings into short human strings and small
// colored widgets: byte sizes, severity levels, bars and sparklines.
//
// Everything here is a pure function of its arguments. Colors come from
// lipgloss, so output degrades to plain glyphs when the terminal (or a
// test) has no color support.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Level is one of five ordered severity buckets.
type Level int

const (
	Calm Level = iota
	Caution
	Warning
	Alert
	Critical
)

func (l Level) String() string {
	switch l {
	case Calm:
		return "calm"
	case Caution:
		return "caution"
	case Warning:
		return "warning"
	case Alert:
		return "alert"
	case Critical:
		return "critical"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Glyphs
const (
	BarFilled = "█"
	BarEmpty  = "░"
	NoData    = "─"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

var (
	levelStyles = map[Level]lipgloss.Style{
		Calm:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Caution:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Alert:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
	dimStyle = lipgloss.NewStyle().Faint(true)
)

// Style returns the lipgloss style used to paint text at this level.
func (l Level) Style() lipgloss.Style {
	if s, ok := levelStyles[l]; ok {
		return s
	}
	return levelStyles[Critical]
}

// Dim renders s faint.
func Dim(s string) string { return dimStyle.Render(s) }

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// HumanBytes formats n with 1024-based units and one decimal, e.g. "1.5 KB".
// Values past the last unit stay in EB with a large mantissa.
func HumanBytes(n uint64) string {
	v := float64(n)
	unit := 0
	for v >= 1024 && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", v, byteUnits[unit])
}

// GradientBucket maps a percentage onto a Level with thresholds at
// 25/50/75/90, each threshold belonging to the higher bucket. With reverse
// set, 100-pct is bucketed instead.
func GradientBucket(pct float64, reverse bool) Level {
	if reverse {
		pct = 100 - pct
	}
	switch {
	case pct < 25:
		return Calm
	case pct < 50:
		return Caution
	case pct < 75:
		return Warning
	case pct < 90:
		return Alert
	default:
		return Critical
	}
}

// SparkLevel colors one sparkline sample by its absolute value.
func SparkLevel(v float64) Level {
	switch {
	case v > 80:
		return Critical
	case v > 60:
		return Alert
	case v > 40:
		return Caution
	default:
		return Calm
	}
}

// TempLevel colors a temperature in °C.
func TempLevel(c float64) Level {
	switch {
	case c < 70:
		return Calm
	case c < 85:
		return Warning
	default:
		return Critical
	}
}

// Percent renders pct with the given printf verb, colored by its bucket.
func Percent(verb string, pct float64) string {
	return GradientBucket(pct, false).Style().Render(fmt.Sprintf(verb, pct))
}

// FilledCells is floor(pct/100*width) clamped to [0, width].
func FilledCells(pct float64, width int) int {
	if width <= 0 || math.IsNaN(pct) {
		return 0
	}
	filled := math.Floor(pct / 100 * float64(width))
	switch {
	case filled < 0:
		return 0
	case filled > float64(width):
		return width
	}
	return int(filled)
}

// ProgressBar draws a width-cell bar. Filled cells take the color of pct's
// bucket, the rest are faint. An empty bar is entirely faint.
func ProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := FilledCells(pct, width)
	if filled == 0 {
		return Dim(strings.Repeat(BarEmpty, width))
	}
	bar := GradientBucket(pct, false).Style().Render(strings.Repeat(BarFilled, filled))
	if filled < width {
		bar += Dim(strings.Repeat(BarEmpty, width-filled))
	}
	return bar
}

// Sparkline draws the last width finite values of data, one glyph each.
// Glyph height is normalized over the drawn slice only; glyph color follows
// the absolute value. Missing history is left-padded with faint NoData so the
// result is always exactly width cells.
func Sparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}

	valid := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return Dim(strings.Repeat(NoData, width))
	}
	if len(valid) > width {
		valid = valid[len(valid)-width:]
	}

	minVal, maxVal := valid[0], valid[0]
	for _, v := range valid {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	var sb strings.Builder
	if pad := width - len(valid); pad > 0 {
		sb.WriteString(Dim(strings.Repeat(NoData, pad)))
	}
	top := len(sparkRunes) - 1
	for _, v := range valid {
		idx := int((v - minVal) / (maxVal - minVal) * float64(top))
		if idx < 0 {
			idx = 0
		} else if idx > top {
			idx = top
		}
		sb.WriteString(SparkLevel(v).Style().Render(string(sparkRunes[idx])))
	}
	return sb.String()
}

// Uptime formats d as "H:MM:SS", prefixed with "N day(s), " past a day.
func Uptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	days := secs / 86400
	secs %= 86400
	clock := fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
	switch days {
	case 0:
		return clock
	case 1:
		return "1 day, " + clock
	}
	return fmt.Sprintf("%d days, %s", days, clock)
}
