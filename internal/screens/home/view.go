package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

const titleFull = ` ╔╦╗╦╔╗╔╔╦╗╔═╗╔═╗╦═╗╔═╗
 ║║║║║║║ ║║║  ╠═╣╠╦╝║╣
 ╩ ╩╩╝╚╝═╩╝╚═╝╩ ╩╩╚═╚═╝`

const titleCompact = "M I N D C A R E"

// contentWidth returns the uniform inner width shared by all sections.
func contentWidth(frameWidth int) int {
	// Border (2) plus inner padding (4).
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func centered(cw int, s string) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(s)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	if compact {
		return centered(cw, style.Render(titleCompact))
	}
	return centered(cw, style.Render(titleFull))
}

func renderTagline(cw int) string {
	return centered(cw, theme.Hint.Render("How are you feeling today?"))
}

// renderStatusBar shows which assistant model is active.
func renderStatusBar(model string, cw int, compact bool) string {
	on := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	off := lipgloss.NewStyle().Foreground(theme.TextDim)

	var assistant string
	switch {
	case model == "":
		assistant = off.Render("○ assistant offline")
	case compact:
		assistant = on.Render("● " + model)
	default:
		assistant = on.Render(fmt.Sprintf("● assistant: %s", model))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(assistant)
}

// buttonWidth is the fixed width of menu buttons.
const buttonWidth = 24

func renderMenu(items []string, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	buttons := make([]string, 0, len(items))
	for i, label := range items {
		if i == selected {
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		} else {
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	return centered(cw, strings.Join(buttons, "\n"))
}

// renderMenuCompact drops the button borders on small terminals.
func renderMenuCompact(items []string, selected int, cw int) string {
	lines := make([]string, 0, len(items))
	for i, label := range items {
		if i == selected {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ "+label+" "))
			continue
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.Text).
			Render("   "+label))
	}
	return centered(cw, strings.Join(lines, "\n"))
}

func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("Set an LLM API key to enable the chat assistant (see mindcare --help)")
}

// renderFrame centres content inside a rounded border filling the area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
