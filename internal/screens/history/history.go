// Package history shows the request log: recent backend and LLM calls,
// metadata only.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mindcare-ai/mindcare/internal/screen"
	"github.com/mindcare-ai/mindcare/internal/store"
	"github.com/mindcare-ai/mindcare/internal/ui/layout"
	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

// pageSize is how many events are loaded.
const pageSize = 50

// Empty is shown when nothing has been logged yet.
const Empty = "No activity yet. Requests to the services will show up here."

type historyLoadedMsg struct {
	Events []store.Event
	Err    error
}

// HistoryScreen lists recent request-log events.
type HistoryScreen struct {
	eventRepo store.EventRepo
	ctx       context.Context
	cancel    context.CancelFunc
	events    []store.Event
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.Closer = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &HistoryScreen{
		eventRepo: eventRepo,
		ctx:       ctx,
		cancel:    cancel,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	ctx, repo := s.ctx, s.eventRepo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		events, err := store.Recent(ctx, repo, store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Close() {
	s.cancel()
}

func (s *HistoryScreen) Title() string {
	return "Activity"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading activity...")
	}
	if len(s.events) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n  " + Empty)
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, e := range s.events {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		mark := lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		if !e.Success() {
			mark = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}

		line := style.Render(prefix+summary(e)) + " " + mark
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, d := range details(e) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					theme.Hint.Render("    "+d)))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// summary is the one-line description of an event.
func summary(e store.Event) string {
	when := e.Timestamp.Local().Format("Jan 02 15:04")
	if e.LLM != nil {
		return fmt.Sprintf("%s  %-10s %-20s %5dms", when, e.LLM.Purpose, e.LLM.Model, e.LLM.LatencyMs)
	}
	return fmt.Sprintf("%s  %-10s %-20s %5dms", when, e.Service.Service,
		fmt.Sprintf("%s %d", e.Service.Method, e.Service.StatusCode), e.Service.LatencyMs)
}

// details are the expanded lines of an event.
func details(e store.Event) []string {
	var lines []string
	if e.LLM != nil {
		lines = append(lines,
			fmt.Sprintf("#%d  provider %s", e.Sequence, e.LLM.Provider),
			fmt.Sprintf("tokens %d in / %d out", e.LLM.InputTokens, e.LLM.OutputTokens))
		if e.LLM.ErrorMessage != "" {
			lines = append(lines, "error: "+e.LLM.ErrorMessage)
		}
		return lines
	}
	lines = append(lines, fmt.Sprintf("#%d  %s", e.Sequence, e.Service.URL))
	if e.Service.ErrorMessage != "" {
		lines = append(lines, "error: "+e.Service.ErrorMessage)
	}
	return lines
}
