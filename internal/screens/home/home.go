// Package home is the main menu.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/mindcare-ai/mindcare/internal/prediction"
	qn "github.com/mindcare-ai/mindcare/internal/questionnaire"
	"github.com/mindcare-ai/mindcare/internal/router"
	"github.com/mindcare-ai/mindcare/internal/screen"
	chatscreen "github.com/mindcare-ai/mindcare/internal/screens/chat"
	"github.com/mindcare-ai/mindcare/internal/screens/checkin"
	"github.com/mindcare-ai/mindcare/internal/screens/history"
	"github.com/mindcare-ai/mindcare/internal/screens/journal"
	"github.com/mindcare-ai/mindcare/internal/screens/notice"
	"github.com/mindcare-ai/mindcare/internal/screens/questionnaire"
	"github.com/mindcare-ai/mindcare/internal/store"
	"github.com/mindcare-ai/mindcare/internal/ui/components"
	"github.com/mindcare-ai/mindcare/internal/ui/layout"
)

// Menu labels, top to bottom.
const (
	LabelPrediction = "RISK PREDICTION"
	LabelChat       = "CHAT ASSISTANT"
	LabelCheckin    = "EMOTION CHECK-IN"
	LabelJournal    = "VIDEO JOURNAL"
	LabelActivity   = "ACTIVITY LOG"
	LabelQuit       = "QUIT"
)

// NoAssistant is shown instead of the chat when no LLM is configured.
const NoAssistant = "No LLM provider is configured.\n\n" +
	"Set GEMINI_API_KEY (or OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY) " +
	"or add an llm section to the config file, then restart MindCare."

// Deps are the services the home menu hands to the screens it opens.
// Assistant is nil when no LLM provider is configured.
type Deps struct {
	Battery   *qn.Battery
	Scorer    prediction.Scorer
	Detector  checkin.Detector
	Analyzer  journal.Analyzer
	Assistant chatscreen.Assistant
	Model     string
	Events    store.EventRepo
	Logger    *zap.Logger
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	deps       Deps
	menu       components.Menu
	menuLabels []string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Battery == nil {
		deps.Battery = qn.DefaultBattery()
	}
	h := &HomeScreen{deps: deps}

	h.menuLabels = []string{LabelPrediction, LabelChat, LabelCheckin, LabelJournal, LabelActivity, LabelQuit}
	items := []components.MenuItem{
		{Label: LabelPrediction, Action: h.open(func() screen.Screen {
			return questionnaire.New(deps.Battery, deps.Scorer, deps.Logger.Named("questionnaire"))
		})},
		{Label: LabelChat, Action: h.open(func() screen.Screen {
			if deps.Assistant == nil {
				return notice.New("Chat Assistant", NoAssistant)
			}
			return chatscreen.New(deps.Assistant, deps.Logger.Named("chat"))
		})},
		{Label: LabelCheckin, Action: h.open(func() screen.Screen {
			return checkin.New(deps.Detector, deps.Logger.Named("checkin"))
		})},
		{Label: LabelJournal, Action: h.open(func() screen.Screen {
			return journal.New(deps.Analyzer, deps.Logger.Named("journal"))
		})},
		{Label: LabelActivity, Action: h.open(func() screen.Screen {
			return history.New(deps.Events)
		})},
		{Label: LabelQuit, Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

// open builds the screen lazily so every visit starts fresh.
func (h *HomeScreen) open(build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		s := build()
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: s}
		}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps.
	termHeight := height + layout.HeaderHeight + layout.FooterHeight + 2
	compact := layout.IsCompactHeight(termHeight) || layout.IsCompactWidth(width)

	cw := contentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, renderTagline(cw))
	}
	sections = append(sections, renderStatusBar(h.deps.Model, cw, compact))
	if h.deps.Assistant == nil {
		sections = append(sections, renderLLMBanner(cw))
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
