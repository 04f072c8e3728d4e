package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: soft and calm, readable on dark terminals.
var (
	Primary   = lipgloss.Color("#7C9CBF") // Dusty Blue
	Secondary = lipgloss.Color("#5FB3A1") // Sage Teal
	Accent    = lipgloss.Color("#E0A96D") // Warm Sand
	Success   = lipgloss.Color("#7BC47F") // Soft Green
	Error     = lipgloss.Color("#E07A7A") // Muted Coral
	Text      = lipgloss.Color("#E8EEF2") // Mist
	TextDim   = lipgloss.Color("#8A9BA8") // Slate
	BgDark    = lipgloss.Color("#141B22") // Night
	BgCard    = lipgloss.Color("#1F2A33") // Deep Slate
	Border    = lipgloss.Color("#34444F") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Divider = lipgloss.NewStyle().
		Foreground(Border)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(TextDim)

	// High marks a probability above the notable threshold.
	High = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	BarFilled = lipgloss.NewStyle().
			Background(Secondary)

	BarHigh = lipgloss.NewStyle().
		Background(Error)

	BarEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)

	UserBubble = lipgloss.NewStyle().
			Foreground(Text).
			Background(BgCard).
			Padding(0, 1)

	BotLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)
