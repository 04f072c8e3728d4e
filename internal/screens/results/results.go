// Package results shows a ProbabilityResult: the full listing with the
// inline chart, and the standalone exploratory chart.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mindcare-ai/mindcare/internal/prediction"
	"github.com/mindcare-ai/mindcare/internal/screen"
	"github.com/mindcare-ai/mindcare/internal/ui/components"
	"github.com/mindcare-ai/mindcare/internal/ui/layout"
	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

// Tab selects which rendering path is shown.
type Tab int

const (
	TabListing Tab = iota // listing plus the notable-results chart
	TabChart              // standalone chart
)

// Screen implements screen.Screen for prediction results.
type Screen struct {
	result prediction.Result
	tab    Tab
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a results screen. A nil result renders the awaiting notice.
func New(result prediction.Result) *Screen {
	return &Screen{result: result}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Results"
}

// Tab returns the active tab.
func (s *Screen) Tab() Tab {
	return s.tab
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Listing / Chart"},
		{Key: "Esc", Description: "Back to questions"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "left", "right", "c":
			if s.tab == TabListing {
				s.tab = TabChart
			} else {
				s.tab = TabListing
			}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	if s.result == nil {
		return layout.RenderCentered(prediction.AwaitingResult, width, height)
	}

	cw := components.ContentWidth(width)
	var body string
	if s.tab == TabChart {
		body = RenderStandaloneChart(s.result, cw)
	} else {
		body = RenderListing(s.result, cw) + "\n\n" + RenderInlineChart(s.result, cw)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// RenderListing lists every category with its percentage; categories
// above the high threshold are emphasised.
func RenderListing(r prediction.Result, cw int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Prediction Results"))
	b.WriteString("\n")
	b.WriteString(layout.Divider(cw+4, cw))
	b.WriteString("\n")

	for _, e := range r.Listing() {
		line := fmt.Sprintf("%-*s %8s", cw-10, e.Category, e.Percent())
		if e.IsHigh {
			b.WriteString(theme.High.Render(line))
		} else {
			b.WriteString(theme.Body.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderInlineChart is the post-submission chart of notable results only.
func RenderInlineChart(r prediction.Result, cw int) string {
	return renderChart(r.InlineChart(), "", prediction.InlineChartAxis, true, cw)
}

// RenderStandaloneChart is the exploratory chart of every category above
// the chart threshold.
func RenderStandaloneChart(r prediction.Result, cw int) string {
	return renderChart(r.StandaloneChart(), prediction.StandaloneChartTitle, prediction.StandaloneChartAxis, false, cw)
}

func renderChart(entries []prediction.Entry, title, axis string, percent bool, cw int) string {
	if len(entries) == 0 {
		text := theme.Hint.Render(prediction.NoSignificantLikelihood)
		if title != "" {
			text = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(title) + "\n\n" + text
		}
		return text
	}
	bars := make([]components.Bar, 0, len(entries))
	for _, e := range entries {
		bars = append(bars, components.Bar{Label: e.Category, Value: e.Probability, High: e.IsHigh})
	}
	chart := components.BarChart{Title: title, Axis: axis, Bars: bars, Percent: percent}
	return chart.View(cw)
}
