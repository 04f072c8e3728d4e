// Package journal is the video journal screen: upload an existing
// recording and read back the transcript, emotions and advice.
package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
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

// Analyzer uploads a recording for analysis.
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*emotion.JournalAnalysis, error)
}

// analysisDoneMsg carries an analysis back to the update loop.
type analysisDoneMsg struct {
	seq      int
	analysis *emotion.JournalAnalysis
	err      error
}

// Screen implements screen.Screen for the video journal.
type Screen struct {
	analyzer Analyzer
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	input    components.TextInput
	spinner  spinner.Model
	pending  bool
	seq      int
	analysis *emotion.JournalAnalysis
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates a journal screen.
func New(analyzer Analyzer, logger *zap.Logger) *Screen {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Screen{
		analyzer: analyzer,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		input:    components.NewTextInput("Path to a recording, e.g. ~/Videos/journal.webm", false, 0),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	return "Video Journal"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.pending {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Analyze"},
		{Key: "Esc", Description: "Back"},
	}
}

// Close cancels an outstanding upload; its result is then ignored.
func (s *Screen) Close() {
	s.seq++
	s.cancel()
}

// Analysis returns the last analysis, or nil.
func (s *Screen) Analysis() *emotion.JournalAnalysis {
	return s.analysis
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisDoneMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.pending = false
		s.input.SetDisabled(false)
		if msg.err != nil {
			s.logger.Warn("journal analysis failed", zap.Error(msg.err))
			s.errMsg = "Could not analyze the recording: " + msg.err.Error()
			return s, nil
		}
		s.analysis = msg.analysis
		s.logger.Info("journal analyzed",
			zap.String("top_emotion", msg.analysis.TopEmotion),
			zap.Int("frames", len(msg.analysis.Timeline)))
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
			return s, s.upload()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) upload() tea.Cmd {
	path := expandHome(strings.TrimSpace(s.input.Value()))
	if path == "" {
		return nil
	}
	s.errMsg = ""
	s.pending = true
	s.input.SetDisabled(true)
	s.seq++

	ctx, analyzer, seq := s.ctx, s.analyzer, s.seq
	analyze := func() tea.Msg {
		a, err := analyzer.AnalyzeFile(ctx, path)
		return analysisDoneMsg{seq: seq, analysis: a, err: err}
	}
	return tea.Batch(analyze, s.spinner.Tick)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Body.Render("Recording"))
	b.WriteString("\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	switch {
	case s.pending:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).
			Render(s.spinner.View() + " Uploading and analyzing..."))
	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Width(cw).Render(theme.ErrorText.Render(s.errMsg)))
	case s.analysis != nil:
		b.WriteString(RenderAnalysis(s.analysis, cw))
	default:
		b.WriteString(theme.Hint.Render("Record a short video about your day, then enter its path."))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// RenderAnalysis lays out an analysis: top emotion, advice, transcript,
// the emotion distribution and the frame timeline.
func RenderAnalysis(a *emotion.JournalAnalysis, cw int) string {
	heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	wrap := lipgloss.NewStyle().Width(cw).Foreground(theme.Text)

	var b strings.Builder
	b.WriteString(heading.Render("Top emotion: ") + theme.Selected.Render(a.TopEmotion))
	b.WriteString("\n\n")
	b.WriteString(heading.Render("Advice"))
	b.WriteString("\n")
	b.WriteString(wrap.Render(a.Advice))
	b.WriteString("\n\n")
	b.WriteString(heading.Render("Transcript"))
	b.WriteString("\n")
	b.WriteString(wrap.Render(a.Transcript))

	if shares := emotion.Distribution(a.Timeline); len(shares) > 0 {
		bars := make([]components.Bar, 0, len(shares))
		for _, sh := range shares {
			bars = append(bars, components.Bar{Label: sh.Emotion, Value: sh.Fraction})
		}
		b.WriteString("\n\n")
		b.WriteString(components.BarChart{Title: "Emotion distribution", Bars: bars, Percent: true}.View(cw))

		b.WriteString("\n\n")
		b.WriteString(heading.Render("Timeline"))
		b.WriteString("\n")
		entries := make([]string, 0, len(a.Timeline))
		for _, e := range a.Timeline {
			entries = append(entries, fmt.Sprintf("#%d %s", e.Frame, e.Emotion))
		}
		b.WriteString(wrap.Foreground(theme.TextDim).Render(strings.Join(entries, " · ")))
	}
	return b.String()
}
