package questionnaire

import "github.com/mindcare-ai/mindcare/internal/prediction"

// predictionDoneMsg carries a finished submission back to the update loop.
// The Submitter has already applied or discarded it.
type predictionDoneMsg struct {
	Outcome prediction.Outcome
}
