package prediction

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrSubmissionInFlight is returned by Begin while a submission is loading.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// Ticket identifies one submission. Completions carrying an older ticket
// are discarded.
type Ticket uint64

// Outcome is what Complete did with a finished submission.
type Outcome struct {
	// Applied is false when the completion was stale or arrived after the
	// view detached. Nothing else in the Outcome is meaningful then.
	Applied bool
	// Result is the stored result; nil when the service answered without
	// probabilities.
	Result Result
	// Err is the user-visible failure, if any.
	Err error
}

// Submitter owns the submission state of one questionnaire view: the
// loading flag and the last ProbabilityResult.
type Submitter struct {
	mu       sync.Mutex
	loading  bool
	current  Ticket
	detached bool
	result   Result
}

// NewSubmitter returns an idle Submitter with no result.
func NewSubmitter() *Submitter {
	return &Submitter{}
}

// Begin starts a submission: sets loading, clears the previous result and
// issues a fresh ticket.
func (s *Submitter) Begin() (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return 0, ErrSubmissionInFlight
	}
	s.loading = true
	s.detached = false
	s.result = nil
	s.current++
	return s.current, nil
}

// Complete finishes the submission identified by t. Loading is cleared
// whenever t is the current ticket, regardless of outcome.
func (s *Submitter) Complete(t Ticket, res Result, err error) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.current {
		return Outcome{}
	}
	s.loading = false
	if s.detached {
		return Outcome{}
	}
	if err != nil {
		return Outcome{Applied: true, Err: err}
	}
	s.result = res
	return Outcome{Applied: true, Result: res}
}

// Detach marks the view as gone. An in-flight completion is then dropped
// and loading is released.
func (s *Submitter) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
	s.loading = false
	s.current++
}

// Loading reports whether a submission is outstanding.
func (s *Submitter) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Result returns the last stored result, or nil.
func (s *Submitter) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Run performs the scoring call for ticket t and completes it. The
// completion is deferred so loading is cleared even if the scorer panics;
// the panic surfaces as the Outcome error.
func (s *Submitter) Run(ctx context.Context, t Ticket, scorer Scorer, answers map[string]int) (out Outcome) {
	var (
		res Result
		err error
	)
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("prediction failed: %v", r)
		}
		out = s.Complete(t, res, err)
	}()

	res, err = scorer.Predict(ctx, answers)
	if err != nil {
		err = fmt.Errorf("prediction failed: %w", err)
	}
	return out
}

// Submit is Begin followed by Run.
func (s *Submitter) Submit(ctx context.Context, scorer Scorer, answers map[string]int) (Outcome, error) {
	t, err := s.Begin()
	if err != nil {
		return Outcome{}, err
	}
	return s.Run(ctx, t, scorer, answers), nil
}
