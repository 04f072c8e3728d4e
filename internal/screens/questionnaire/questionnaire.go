// Package questionnaire is the risk prediction screen: one question at a
// time, Previous/Next navigation, and submission on the last question.
package questionnaire

import (
	"context"
	"strconv"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/mindcare-ai/mindcare/internal/prediction"
	qn "github.com/mindcare-ai/mindcare/internal/questionnaire"
	"github.com/mindcare-ai/mindcare/internal/router"
	"github.com/mindcare-ai/mindcare/internal/screen"
	"github.com/mindcare-ai/mindcare/internal/screens/results"
	"github.com/mindcare-ai/mindcare/internal/ui/components"
	"github.com/mindcare-ai/mindcare/internal/ui/layout"
)

const (
	btnPrevious = "Previous"
	btnNext     = "Next"
	btnSubmit   = "Submit"
)

// numberCharLimit fits any signed 32-bit integer.
const numberCharLimit = 11

// Screen implements screen.Screen for the questionnaire.
type Screen struct {
	session   *qn.Session
	submitter *prediction.Submitter
	scorer    prediction.Scorer
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	input   components.TextInput
	picker  components.Picker
	buttons components.ButtonRow
	spinner spinner.Model

	errMsg string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates a questionnaire over battery that submits to scorer.
func New(battery *qn.Battery, scorer prediction.Scorer, logger *zap.Logger) *Screen {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Screen{
		session:   qn.NewSession(battery),
		submitter: prediction.NewSubmitter(),
		scorer:    scorer,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		input:     components.NewTextInput("0", true, numberCharLimit),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	s.loadCurrent()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	return "Risk Prediction"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.submitter.Loading() {
		return []layout.KeyHint{{Key: "Esc", Description: "Leave"}}
	}
	hints := []layout.KeyHint{}
	if s.session.Current().Kind == qn.KindNumber {
		hints = append(hints, layout.KeyHint{Key: "0-9", Description: "Answer"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Choose"})
	}
	hints = append(hints,
		layout.KeyHint{Key: "Tab", Description: "Button"},
		layout.KeyHint{Key: "Enter", Description: "Press"},
	)
	if s.submitter.Result() != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Results"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Close detaches the submitter and cancels an in-flight request.
func (s *Screen) Close() {
	s.submitter.Detach()
	s.cancel()
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case predictionDoneMsg:
		return s.handleDone(msg)

	case spinner.TickMsg:
		if !s.submitter.Loading() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.session.Current().Kind == qn.KindNumber {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	// The whole control surface is frozen while a submission is out.
	if s.submitter.Loading() {
		return s, nil
	}
	s.errMsg = ""

	switch msg.String() {
	case "tab":
		s.buttons.Right()
		return s, nil
	case "shift+tab":
		s.buttons.Left()
		return s, nil
	case "enter":
		return s.press(s.buttons.Current())
	case "r", "R":
		if res := s.submitter.Result(); res != nil {
			return s, pushResults(res)
		}
		return s, nil
	}

	q := s.session.Current()
	if q.Kind == qn.KindNumber {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.recordNumber()
		return s, cmd
	}

	var changed bool
	s.picker, changed = s.picker.Update(msg)
	if changed {
		if err := s.session.Answer(s.picker.Selected); err != nil {
			s.logger.Error("record answer", zap.String("question", q.ID), zap.Error(err))
		}
	}
	return s, nil
}

func (s *Screen) press(label string) (screen.Screen, tea.Cmd) {
	switch label {
	case btnPrevious:
		s.session.Previous()
		s.loadCurrent()
	case btnNext:
		s.session.Next()
		s.loadCurrent()
	case btnSubmit:
		return s, s.submit()
	}
	return s, nil
}

// recordNumber stores the number field. Empty input counts as 0.
func (s *Screen) recordNumber() {
	v, err := s.input.NumericValue()
	if err != nil {
		return
	}
	if err := s.session.Answer(v); err != nil {
		s.logger.Error("record answer", zap.String("question", s.session.Current().ID), zap.Error(err))
	}
}

// loadCurrent points the widgets at the question under the cursor and
// rebuilds the button row for the new position.
func (s *Screen) loadCurrent() {
	q := s.session.Current()
	v := s.session.CurrentValue()

	if q.Kind == qn.KindNumber {
		s.input.Reset()
		if v != 0 {
			s.input.SetValue(strconv.Itoa(v))
		}
	} else {
		s.picker = components.NewPicker(q.Choices(), v)
	}

	buttons := []components.Button{{Label: btnPrevious, Disabled: s.session.AtFirst()}}
	if s.session.CanSubmit() {
		buttons = append(buttons, components.Button{Label: btnSubmit})
	} else {
		buttons = append(buttons, components.Button{Label: btnNext})
	}
	s.buttons = components.ButtonRow{Buttons: buttons, Focused: len(buttons) - 1}
}

// submit starts a submission of the whole AnswerSet. The request runs off
// the update loop and reports back with predictionDoneMsg.
func (s *Screen) submit() tea.Cmd {
	if !s.session.CanSubmit() {
		return nil
	}
	ticket, err := s.submitter.Begin()
	if err != nil {
		return nil
	}
	s.input.SetDisabled(true)

	ctx, sub, scorer := s.ctx, s.submitter, s.scorer
	answers := s.session.Answers().Map()
	s.logger.Info("prediction submitted", zap.Int("answers", len(answers)))

	run := func() tea.Msg {
		return predictionDoneMsg{Outcome: sub.Run(ctx, ticket, scorer, answers)}
	}
	return tea.Batch(run, s.spinner.Tick)
}

func (s *Screen) handleDone(msg predictionDoneMsg) (screen.Screen, tea.Cmd) {
	s.input.SetDisabled(false)
	out := msg.Outcome
	if !out.Applied {
		return s, nil
	}
	if out.Err != nil {
		s.logger.Warn("prediction failed", zap.Error(out.Err))
		s.errMsg = out.Err.Error()
		return s, nil
	}
	if out.Result == nil {
		s.logger.Info("prediction returned no probabilities")
		return s, nil
	}
	s.logger.Info("prediction received",
		zap.Int("categories", len(out.Result)),
		zap.Int("high", out.Result.HighCount()))
	return s, pushResults(out.Result)
}

func pushResults(res prediction.Result) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: results.New(res)}
	}
}
