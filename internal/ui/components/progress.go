package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trans/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label   string
	Percent float64
	Width   int

	// Suffix replaces the percentage shown after the bar when set.
	Suffix string

	// Warn switches the filled part to the error color.
	Warn bool
}

// NewProgressBar creates a progress bar for done out of total.
func NewProgressBar(label string, done, total, width int) ProgressBar {
	p := ProgressBar{Label: label, Width: width}
	if total > 0 {
		p.Percent = float64(done) / float64(total)
	}
	return p
}

// Countdown returns a bar draining as seconds run out. The last third
// renders in the warning color.
func Countdown(left, limit, width int) ProgressBar {
	p := NewProgressBar("⏱", left, limit, width)
	p.Suffix = fmt.Sprintf("%2ds", left)
	p.Warn = limit > 0 && left*3 <= limit
	return p
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	suffix := p.Suffix
	if suffix == "" {
		suffix = fmt.Sprintf("%d%%", int(p.Percent*100))
	}
	suffix = "  " + suffix

	barWidth := max(p.Width-lipgloss.Width(result)-lipgloss.Width(suffix), 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	fill := theme.ProgressFilled
	if p.Warn {
		fill = theme.ProgressLow
	}
	result += fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	return result + lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
}
