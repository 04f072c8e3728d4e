// Package notice shows a static message for a feature that cannot run,
// for example the chat assistant without a configured LLM provider.
package notice

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mindcare-ai/mindcare/internal/screen"
	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

// Screen is a read-only message screen.
type Screen struct {
	title   string
	message string
}

var _ screen.Screen = (*Screen)(nil)

// New creates a notice screen.
func New(title, message string) *Screen {
	return &Screen{title: title, message: message}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *Screen) View(width, height int) string {
	body := theme.Subtitle.Width(min(width-8, 60)).Render(s.message)

	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("╌╌ "+s.title+" ╌╌"),
		"",
		body,
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *Screen) Title() string {
	return s.title
}
