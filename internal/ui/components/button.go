package components

import (
	"strings"

	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

// Button is one labelled action in a ButtonRow.
type Button struct {
	Label    string
	Disabled bool
}

// ButtonRow is a horizontal row of buttons with one focused.
type ButtonRow struct {
	Buttons []Button
	Focused int
}

// View renders the row. A disabled button is dimmed and never highlighted.
func (r ButtonRow) View() string {
	parts := make([]string, 0, len(r.Buttons))
	for i, b := range r.Buttons {
		switch {
		case b.Disabled:
			parts = append(parts, theme.ButtonInactive.Foreground(theme.Border).Render(b.Label))
		case i == r.Focused:
			parts = append(parts, theme.ButtonActive.Render("▸ "+b.Label))
		default:
			parts = append(parts, theme.ButtonInactive.Render(b.Label))
		}
	}
	return strings.Join(parts, "  ")
}

// Left moves focus to the previous enabled button.
func (r *ButtonRow) Left() {
	for i := r.Focused - 1; i >= 0; i-- {
		if !r.Buttons[i].Disabled {
			r.Focused = i
			return
		}
	}
}

// Right moves focus to the next enabled button.
func (r *ButtonRow) Right() {
	for i := r.Focused + 1; i < len(r.Buttons); i++ {
		if !r.Buttons[i].Disabled {
			r.Focused = i
			return
		}
	}
}

// Current returns the focused button label, or "" if it is disabled.
func (r ButtonRow) Current() string {
	if r.Focused < 0 || r.Focused >= len(r.Buttons) || r.Buttons[r.Focused].Disabled {
		return ""
	}
	return r.Buttons[r.Focused].Label
}
