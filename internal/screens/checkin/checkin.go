// Package checkin is the emotion check-in screen: the user writes how they
// feel and the emotion backend names the emotion.
package checkin

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/mindcare-ai/mindcare/internal/emotion"
	"github.com/mindcare-ai/mindcare/internal/screen"
	"github.com/mindcare-ai/mindcare/internal/ui/components"
	"github.com/mindcare-ai/mindcare/internal/ui/layout"
	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

// Detector names the emotion in a piece of text.
type Detector interface {
	Detect(ctx context.Context, text string) (emotion.Detection, error)
}

type entry struct {
	fromUser bool
	text     string
}

// detectDoneMsg carries a detection back to the update loop.
type detectDoneMsg struct {
	seq       int
	detection emotion.Detection
	err       error
}

// Screen implements screen.Screen for the check-in.
type Screen struct {
	detector Detector
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	entries []entry
	input   components.TextInput
	spinner spinner.Model
	pending bool
	seq     int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates a check-in screen greeting the user.
func New(detector Detector, logger *zap.Logger) *Screen {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Screen{
		detector: detector,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		entries:  []entry{{text: emotion.Greeting}},
		input:    components.NewTextInput("Type how you feel...", false, 500),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	return "Emotion Check-in"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.pending {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Back"},
	}
}

// Close cancels an outstanding detection; its result is then ignored.
func (s *Screen) Close() {
	s.seq++
	s.cancel()
}

// Pending reports whether a detection is outstanding.
func (s *Screen) Pending() bool {
	return s.pending
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case detectDoneMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.pending = false
		s.input.SetDisabled(false)
		if msg.err != nil {
			s.logger.Warn("emotion detection failed", zap.Error(msg.err))
			s.entries = append(s.entries, entry{text: emotion.DetectFailure})
			return s, nil
		}
		s.logger.Info("emotion detected", zap.String("emotion", msg.detection.Emotion))
		s.entries = append(s.entries, entry{text: msg.detection.Message()})
		return s, nil

	case spinner.TickMsg:
		if !s.pending {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.pending {
			return s, nil
		}
		if msg.String() == "enter" {
			return s, s.send()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) send() tea.Cmd {
	text := strings.TrimSpace(s.input.Value())
	if text == "" {
		return nil
	}
	s.entries = append(s.entries, entry{fromUser: true, text: text})
	s.input.Reset()
	s.input.SetDisabled(true)
	s.pending = true
	s.seq++

	ctx, detector, seq := s.ctx, s.detector, s.seq
	detect := func() tea.Msg {
		d, err := detector.Detect(ctx, text)
		return detectDoneMsg{seq: seq, detection: d, err: err}
	}
	return tea.Batch(detect, s.spinner.Tick)
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var lines []string
	for _, e := range s.entries {
		if e.fromUser {
			lines = append(lines, lipgloss.PlaceHorizontal(cw, lipgloss.Right, theme.UserBubble.Render(e.text)))
		} else {
			lines = append(lines, theme.BotLabel.Render("MindCare ")+theme.Body.Render(e.text))
		}
	}
	if s.pending {
		lines = append(lines, theme.Hint.Render(s.spinner.View()+" Detecting..."))
	}

	// Keep the newest entries when the transcript outgrows the area.
	transcript := strings.Join(lines, "\n\n")
	avail := height - 6
	if avail < 1 {
		avail = 1
	}
	if rows := strings.Split(transcript, "\n"); len(rows) > avail {
		transcript = strings.Join(rows[len(rows)-avail:], "\n")
	}

	body := lipgloss.NewStyle().Width(cw).Height(avail).AlignVertical(lipgloss.Bottom).Render(transcript) +
		"\n" + layout.Divider(cw+4, cw) + "\n" + s.input.View()
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
