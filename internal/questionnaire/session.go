package questionnaire

// Session is the per-view questionnaire state: the battery, its answers and
// the navigation cursor. It is owned by a single view and not shared.
type Session struct {
	battery *Battery
	answers *AnswerSet
	cursor  int
}

// NewSession starts at the first question with all answers at 0.
func NewSession(b *Battery) *Session {
	return &Session{
		battery: b,
		answers: NewAnswerSet(b),
	}
}

// Battery returns the question sequence this session walks.
func (s *Session) Battery() *Battery {
	return s.battery
}

// Answers returns the live AnswerSet.
func (s *Session) Answers() *AnswerSet {
	return s.answers
}

// Cursor returns the current question index, always in [0, N).
func (s *Session) Cursor() int {
	return s.cursor
}

// Current returns the question under the cursor.
func (s *Session) Current() Question {
	return s.battery.At(s.cursor)
}

// CurrentValue returns the stored answer for the question under the cursor.
func (s *Session) CurrentValue() int {
	v, _ := s.answers.Get(s.Current().ID)
	return v
}

// Previous moves back one question. No-op at the first question.
func (s *Session) Previous() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// Next moves forward one question. No-op at the last question.
func (s *Session) Next() {
	if s.cursor < s.battery.Len()-1 {
		s.cursor++
	}
}

// AtFirst reports whether Previous would be a no-op.
func (s *Session) AtFirst() bool {
	return s.cursor == 0
}

// AtLast reports whether the cursor is on the final question, the only
// position from which submission is offered.
func (s *Session) AtLast() bool {
	return s.cursor == s.battery.Len()-1
}

// CanSubmit reports whether submit is offered at the current position.
func (s *Session) CanSubmit() bool {
	return s.AtLast()
}

// Answer records v for the question under the cursor.
func (s *Session) Answer(v int) error {
	return s.answers.Set(s.Current().ID, v)
}

// Progress returns the 1-based question number and the total.
func (s *Session) Progress() (int, int) {
	return s.cursor + 1, s.battery.Len()
}
