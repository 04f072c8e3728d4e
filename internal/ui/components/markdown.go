package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders assistant replies with glamour, rebuilding the renderer
// only when the wrap width changes.
type Markdown struct {
	renderer *glamour.TermRenderer
	width    int
}

// Render returns md rendered for width cells. On any renderer failure the
// raw text is returned.
func (m *Markdown) Render(md string, width int) string {
	if width < 20 {
		width = 20
	}
	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		m.renderer, m.width = r, width
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
