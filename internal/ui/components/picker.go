package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

// Picker is a vertical single-choice list. Selected is the index into
// Options and doubles as the stored answer value.
type Picker struct {
	Options  []string
	Selected int
}

// NewPicker creates a picker with selected preselected, clamped to range.
func NewPicker(options []string, selected int) Picker {
	if selected < 0 || selected >= len(options) {
		selected = 0
	}
	return Picker{Options: options, Selected: selected}
}

// Update moves the selection on up/down. It reports whether the
// selection changed.
func (p Picker) Update(msg tea.Msg) (Picker, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, false
	}
	switch kmsg.String() {
	case "up", "k":
		if p.Selected > 0 {
			p.Selected--
			return p, true
		}
	case "down", "j":
		if p.Selected < len(p.Options)-1 {
			p.Selected++
			return p, true
		}
	}
	return p, false
}

// View renders the options with the selection marked.
func (p Picker) View() string {
	var b strings.Builder
	for i, opt := range p.Options {
		if i == p.Selected {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("● " + opt))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("○ " + opt))
		}
		if i < len(p.Options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
