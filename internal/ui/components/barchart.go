package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

// Bar is one row of a BarChart. Value is a fraction in [0, 1].
type Bar struct {
	Label string
	Value float64
	High  bool
}

// BarChart renders labelled horizontal bars scaled to the full width.
type BarChart struct {
	Title string
	Axis  string
	Bars  []Bar
	// Percent renders values as percentages instead of fractions.
	Percent bool
}

// View renders the chart in width cells.
func (c BarChart) View(width int) string {
	var b strings.Builder

	if c.Title != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Title))
		b.WriteString("\n\n")
	}

	labelWidth := 0
	for _, bar := range c.Bars {
		if w := lipgloss.Width(bar.Label); w > labelWidth {
			labelWidth = w
		}
	}
	valueWidth := 8 // " 100.00%"

	barWidth := width - labelWidth - valueWidth - 4
	if barWidth < 4 {
		barWidth = 4
	}

	for _, bar := range c.Bars {
		label := lipgloss.NewStyle().
			Width(labelWidth).
			Foreground(theme.Text).
			Render(bar.Label)

		filled := int(float64(barWidth) * bar.Value)
		if filled > barWidth {
			filled = barWidth
		}
		if filled < 0 {
			filled = 0
		}
		fill := theme.BarFilled
		if bar.High {
			fill = theme.BarHigh
		}

		b.WriteString(label + "  ")
		b.WriteString(fill.Render(strings.Repeat(" ", filled)))
		b.WriteString(theme.BarEmpty.Render(strings.Repeat(" ", barWidth-filled)))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(" " + c.format(bar.Value)))
		b.WriteString("\n")
	}

	if c.Axis != "" {
		b.WriteString(strings.Repeat(" ", labelWidth+2))
		b.WriteString(theme.Hint.Render(c.Axis))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c BarChart) format(v float64) string {
	if c.Percent {
		return fmt.Sprintf("%6.2f%%", v*100)
	}
	return fmt.Sprintf("%.2f", v)
}
