package questionnaire

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/mindcare-ai/mindcare/internal/prediction"
	qn "github.com/mindcare-ai/mindcare/internal/questionnaire"
	"github.com/mindcare-ai/mindcare/internal/router"
	"github.com/mindcare-ai/mindcare/internal/screens/results"
)

// fakeScorer records the answers it was sent.
type fakeScorer struct {
	result prediction.Result
	err    error
	calls  int
	last   map[string]int
}

func (f *fakeScorer) Predict(_ context.Context, answers map[string]int) (prediction.Result, error) {
	f.calls++
	f.last = answers
	return f.result, f.err
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testBattery(t *testing.T) *qn.Battery {
	t.Helper()
	b, err := qn.NewBattery([]qn.Question{
		{ID: "q1", Prompt: "Age?", Section: "Demographics", Kind: qn.KindNumber},
		{ID: "q2", Prompt: "Gender?", Section: "Demographics", Kind: qn.KindSelect, Options: []string{"Male", "Female"}},
		{ID: "q3", Prompt: "Worry?", Section: "Anxiety", Kind: qn.KindScale},
	})
	if err != nil {
		t.Fatalf("battery: %v", err)
	}
	return b
}

func send(s *Screen, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = s.Update(m)
	}
	return cmd
}

// runSubmit executes the request half of the batched submit command.
func runSubmit(t *testing.T, cmd tea.Cmd) predictionDoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("expected batched submit command")
	}
	done, ok := batch[0]().(predictionDoneMsg)
	if !ok {
		t.Fatalf("first batched command did not produce predictionDoneMsg")
	}
	return done
}

func TestQuestionnaire_AnswersAndNavigation(t *testing.T) {
	s := New(testBattery(t), &fakeScorer{}, nil)

	if s.buttons.Current() != btnNext {
		t.Fatalf("focused button = %q, want Next", s.buttons.Current())
	}
	send(s, keyPress('3'), keyPress('x'), keyPress('4'))
	if v, _ := s.session.Answers().Get("q1"); v != 34 {
		t.Errorf("q1 = %d, want 34", v)
	}

	// Previous is disabled on the first question.
	send(s, specialKey(tea.KeyTab), tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if s.buttons.Current() != btnNext {
		t.Errorf("shift+tab onto disabled Previous: focused %q", s.buttons.Current())
	}

	send(s, specialKey(tea.KeyEnter))
	if s.session.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", s.session.Cursor())
	}
	send(s, specialKey(tea.KeyDown), specialKey(tea.KeyDown), specialKey(tea.KeyDown))
	if v, _ := s.session.Answers().Get("q2"); v != 2 {
		t.Errorf("q2 = %d, want 2 (clamped to last option)", v)
	}

	// Back to q1: the stored number is shown again.
	send(s, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}, specialKey(tea.KeyEnter))
	if s.session.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", s.session.Cursor())
	}
	if s.input.Value() != "34" {
		t.Errorf("input = %q, want 34", s.input.Value())
	}
}

func TestQuestionnaire_NumberEntryIsUnbounded(t *testing.T) {
	tests := []struct {
		typed string
		want  int
	}{
		{"-5", -5},
		{"1200", 1200},
		{"-", 0},
		{"-x7", -7},
	}
	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			s := New(testBattery(t), &fakeScorer{}, nil)
			for _, r := range tt.typed {
				send(s, keyPress(r))
			}
			if v, _ := s.session.Answers().Get("q1"); v != tt.want {
				t.Errorf("q1 = %d, want %d", v, tt.want)
			}
		})
	}
}

func TestQuestionnaire_SubmitOnlyOnLastQuestion(t *testing.T) {
	scorer := &fakeScorer{result: prediction.Result{"Anxiety": 0.9}}
	s := New(testBattery(t), scorer, nil)

	for i := 0; i < 2; i++ {
		if s.session.CanSubmit() {
			t.Fatalf("submit offered at question %d", i+1)
		}
		send(s, specialKey(tea.KeyEnter))
	}
	if s.buttons.Current() != btnSubmit {
		t.Fatalf("focused button = %q, want Submit", s.buttons.Current())
	}

	send(s, specialKey(tea.KeyDown))
	cmd := send(s, specialKey(tea.KeyEnter))
	if !s.submitter.Loading() {
		t.Fatal("expected loading after submit")
	}
	if !strings.Contains(s.View(100, 30), "Predicting") {
		t.Error("loading state not rendered")
	}

	// Everything is frozen while loading.
	send(s, specialKey(tea.KeyUp), specialKey(tea.KeyEnter))
	if v, _ := s.session.Answers().Get("q3"); v != 1 {
		t.Errorf("q3 changed while loading: %d", v)
	}

	done := runSubmit(t, cmd)
	_, next := s.Update(done)
	if s.submitter.Loading() {
		t.Error("loading not cleared")
	}
	if scorer.calls != 1 {
		t.Errorf("scorer called %d times, want 1", scorer.calls)
	}
	if len(scorer.last) != 3 || scorer.last["q3"] != 1 {
		t.Errorf("submitted answers = %v", scorer.last)
	}
	if s.session.Cursor() != 2 {
		t.Errorf("submit moved the cursor to %d", s.session.Cursor())
	}

	push, ok := next().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected push of results screen")
	}
	if _, ok := push.Screen.(*results.Screen); !ok {
		t.Errorf("pushed %T, want *results.Screen", push.Screen)
	}
}

func TestQuestionnaire_FailureShowsErrorAndAllowsRetry(t *testing.T) {
	scorer := &fakeScorer{err: errors.New("service unavailable")}
	s := New(testBattery(t), scorer, nil)
	send(s, specialKey(tea.KeyEnter), specialKey(tea.KeyEnter))

	done := runSubmit(t, send(s, specialKey(tea.KeyEnter)))
	_, next := s.Update(done)
	if next != nil {
		t.Error("failure should not navigate")
	}
	if s.submitter.Loading() {
		t.Error("loading not cleared after failure")
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "service unavailable") {
		t.Errorf("error not shown:\n%s", view)
	}
	if s.submitter.Result() != nil {
		t.Error("failure must not set a result")
	}

	scorer.err = nil
	scorer.result = prediction.Result{"Stress": 0.2}
	done = runSubmit(t, send(s, specialKey(tea.KeyEnter)))
	s.Update(done)
	if s.submitter.Result() == nil {
		t.Error("retry did not store the result")
	}
}

func TestQuestionnaire_AbsentProbabilities(t *testing.T) {
	s := New(testBattery(t), &fakeScorer{}, nil)
	send(s, specialKey(tea.KeyEnter), specialKey(tea.KeyEnter))

	done := runSubmit(t, send(s, specialKey(tea.KeyEnter)))
	_, next := s.Update(done)
	if next != nil {
		t.Error("absent result should not navigate")
	}
	if !strings.Contains(s.View(100, 30), prediction.AwaitingResult) {
		t.Error("expected awaiting notice when no probabilities came back")
	}
}

func TestQuestionnaire_CloseDiscardsLateResult(t *testing.T) {
	s := New(testBattery(t), &fakeScorer{result: prediction.Result{"A": 0.6}}, nil)
	send(s, specialKey(tea.KeyEnter), specialKey(tea.KeyEnter))
	cmd := send(s, specialKey(tea.KeyEnter))

	s.Close()
	done := runSubmit(t, cmd)
	if done.Outcome.Applied {
		t.Error("late completion applied after Close")
	}
	if _, next := s.Update(done); next != nil {
		t.Error("late completion produced a command")
	}
	if s.submitter.Result() != nil {
		t.Error("late result stored")
	}
}

func TestQuestionnaire_KeyHints(t *testing.T) {
	s := New(testBattery(t), &fakeScorer{}, nil)
	if hints := s.KeyHints(); hints[0].Key != "0-9" {
		t.Errorf("number question hint = %q", hints[0].Key)
	}
	send(s, specialKey(tea.KeyEnter))
	if hints := s.KeyHints(); hints[0].Key != "↑↓" {
		t.Errorf("picker question hint = %q", hints[0].Key)
	}
}
