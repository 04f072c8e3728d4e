package prediction

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestResult_Projections(t *testing.T) {
	res := Result{"Depression": 0.7, "Anxiety": 0.05}

	got := res.Listing()
	want := []Entry{
		{Category: "Depression", Probability: 0.7, IsHigh: true},
		{Category: "Anxiety", Probability: 0.05},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Listing() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "70.00%", got[0].Percent())
	assert.Equal(t, "5.00%", got[1].Percent())

	assert.Equal(t, []Entry{{Category: "Depression", Probability: 0.7, IsHigh: true}}, res.InlineChart())
	assert.Equal(t, []Entry{{Category: "Depression", Probability: 0.7, IsHigh: true}}, res.StandaloneChart())
	assert.Equal(t, 1, res.HighCount())
}

func TestResult_ThresholdsAreStrict(t *testing.T) {
	res := Result{"ADHD": 0.5, "OCD": 0.1, "PTSD": 0.5000001, "BPD": 0.1000001}

	inline := res.InlineChart()
	assert.Len(t, inline, 1)
	assert.Equal(t, "PTSD", inline[0].Category)

	var names []string
	for _, e := range res.StandaloneChart() {
		names = append(names, e.Category)
	}
	assert.Equal(t, []string{"PTSD", "ADHD", "BPD"}, names)

	for _, e := range res.Listing() {
		assert.Equal(t, e.Probability > 0.5, e.IsHigh, e.Category)
	}
}

func TestResult_EmptyStandaloneChart(t *testing.T) {
	res := Result{"Stress": 0.1, "Bipolar": 0.02, "Schizophrenia": 0}
	assert.Empty(t, res.StandaloneChart())
	assert.Empty(t, res.InlineChart())
	assert.Len(t, res.Listing(), 3)
	assert.Equal(t, "No significant disorder likelihood detected.", NoSignificantLikelihood)
}

func TestResult_SortOrder(t *testing.T) {
	res := Result{"b": 0.3, "a": 0.3, "c": 0.9, "d": 0}
	var names []string
	for _, e := range res.Listing() {
		names = append(names, e.Category)
	}
	assert.Equal(t, []string{"c", "a", "b", "d"}, names)
}

func TestResult_NilIsEmpty(t *testing.T) {
	var res Result
	assert.Empty(t, res.Listing())
	assert.Empty(t, res.StandaloneChart())
	assert.Zero(t, res.HighCount())
}

func TestThresholdsDistinct(t *testing.T) {
	assert.NotEqual(t, HighThreshold, ChartThreshold)
	assert.Equal(t, 0.5, HighThreshold)
	assert.Equal(t, 0.1, ChartThreshold)
}
