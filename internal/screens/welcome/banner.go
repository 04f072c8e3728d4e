package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

const bannerArt = `
 ███╗   ███╗██╗███╗   ██╗██████╗  ██████╗ █████╗ ██████╗ ███████╗
 ████╗ ████║██║████╗  ██║██╔══██╗██╔════╝██╔══██╗██╔══██╗██╔════╝
 ██╔████╔██║██║██╔██╗ ██║██║  ██║██║     ███████║██████╔╝█████╗
 ██║╚██╔╝██║██║██║╚██╗██║██║  ██║██║     ██╔══██║██╔══██╗██╔══╝
 ██║ ╚═╝ ██║██║██║ ╚████║██████╔╝╚██████╗██║  ██║██║  ██║███████╗
 ╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝╚═════╝  ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝`

const bannerCompact = "M I N D C A R E"

// bannerMinWidth is the narrowest terminal that fits the block letters.
const bannerMinWidth = 70

// RenderBanner returns the MindCare banner in the primary colour, or a
// spaced-out fallback on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
