// Package welcome shows a short breathing splash before the home menu.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mindcare-ai/mindcare/internal/router"
	"github.com/mindcare-ai/mindcare/internal/screen"
	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 1000 * time.Millisecond
	hintAt       = 2000 * time.Millisecond
	totalDur     = 3000 * time.Millisecond

	// One breath: inhale then exhale.
	breathPeriod = 4 * time.Second
)

// Tagline is shown under the banner.
const Tagline = "A quiet space to check in with yourself."

// breathFrames grow from a dot to a full circle.
var breathFrames = []string{
	"·",
	"∘",
	"○",
	"◯",
	"( ◯ )",
	"(  ◯  )",
}

type tickMsg time.Time

// WelcomeScreen shows a splash animation until a key is pressed, then
// replaces itself with the screen produced by homeFactory.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that hands over to homeFactory's screen.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// breath returns the current circle frame and cue word.
func (w *WelcomeScreen) breath() (string, string) {
	ticksPerBreath := int(breathPeriod / tickInterval)
	pos := w.tickCount % ticksPerBreath
	half := ticksPerBreath / 2

	cue := "breathe in"
	step := pos
	if pos >= half {
		cue = "breathe out"
		step = ticksPerBreath - 1 - pos
	}
	idx := step * len(breathFrames) / half
	if idx >= len(breathFrames) {
		idx = len(breathFrames) - 1
	}
	return breathFrames[idx], cue
}

func (w *WelcomeScreen) View(width, height int) string {
	circle, cue := w.breath()

	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(circle),
		theme.Hint.Render(cue),
	}

	if w.elapsed >= bannerAt {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(Tagline))
	}

	if w.elapsed >= hintAt {
		sections = append(sections, "", theme.Hint.Render("press any key to continue"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimRight(content, "\n"))
}
