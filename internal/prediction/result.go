package prediction

import (
	"fmt"
	"sort"
)

// Thresholds for the two chart projections. The inline chart keeps
// probabilities above HighThreshold, the standalone chart those above
// ChartThreshold.
const (
	HighThreshold  = 0.5
	ChartThreshold = 0.1
)

// Fixed user-facing texts.
const (
	NoSignificantLikelihood = "No significant disorder likelihood detected."
	AwaitingResult          = "Your prediction results will appear here after submission."
	StandaloneChartTitle    = "Predicted Probability of Mental Health Disorders"
	InlineChartAxis         = "Likelihood (%)"
	StandaloneChartAxis     = "Probability"
)

// Result maps a disorder category to a probability in [0, 1]. The set of
// categories is whatever the scoring service returns.
type Result map[string]float64

// Entry is one category of a Result prepared for display.
type Entry struct {
	Category    string
	Probability float64
	// IsHigh marks probabilities strictly above HighThreshold.
	IsHigh bool
}

// Percent renders the probability as a percentage with two decimals.
func (e Entry) Percent() string {
	return fmt.Sprintf("%.2f%%", e.Probability*100)
}

// Listing returns every category sorted by probability descending, ties
// broken by category name.
func (r Result) Listing() []Entry {
	return r.entries(func(float64) bool { return true })
}

// InlineChart returns the categories above HighThreshold, for the
// post-submission "notable results" chart. Empty when nothing qualifies.
func (r Result) InlineChart() []Entry {
	return r.entries(func(p float64) bool { return p > HighThreshold })
}

// StandaloneChart returns the categories above ChartThreshold. An empty
// slice means the chart is replaced by NoSignificantLikelihood.
func (r Result) StandaloneChart() []Entry {
	return r.entries(func(p float64) bool { return p > ChartThreshold })
}

// HighCount reports how many categories exceed HighThreshold.
func (r Result) HighCount() int {
	n := 0
	for _, p := range r {
		if p > HighThreshold {
			n++
		}
	}
	return n
}

func (r Result) entries(keep func(float64) bool) []Entry {
	out := make([]Entry, 0, len(r))
	for c, p := range r {
		if !keep(p) {
			continue
		}
		out = append(out, Entry{Category: c, Probability: p, IsHigh: p > HighThreshold})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Category < out[j].Category
	})
	return out
}
