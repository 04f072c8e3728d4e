package prediction

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcare-ai/mindcare/internal/backend"
)

type scorerFunc func(ctx context.Context, answers map[string]int) (Result, error)

func (f scorerFunc) Predict(ctx context.Context, answers map[string]int) (Result, error) {
	return f(ctx, answers)
}

func fixed(res Result, err error) Scorer {
	return scorerFunc(func(context.Context, map[string]int) (Result, error) { return res, err })
}

func TestSubmitter_Success(t *testing.T) {
	s := NewSubmitter()
	assert.False(t, s.Loading())
	assert.Nil(t, s.Result())

	out, err := s.Submit(context.Background(), fixed(Result{"Depression": 0.7}, nil), map[string]int{})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.NoError(t, out.Err)
	assert.Equal(t, Result{"Depression": 0.7}, out.Result)
	assert.Equal(t, Result{"Depression": 0.7}, s.Result())
	assert.False(t, s.Loading())
}

func TestSubmitter_TransportFailureLeavesNoResult(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	s := NewSubmitter()
	client := NewClient(url, backend.NewHTTPClient(ServiceName, 0, nil, nil))
	out, err := s.Submit(context.Background(), client, map[string]int{"q1": 1})
	require.NoError(t, err)

	assert.True(t, out.Applied)
	assert.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "prediction failed")
	assert.False(t, s.Loading())
	assert.Nil(t, s.Result())
}

func TestSubmitter_BeginClearsPreviousResult(t *testing.T) {
	s := NewSubmitter()
	_, err := s.Submit(context.Background(), fixed(Result{"OCD": 0.8}, nil), nil)
	require.NoError(t, err)
	require.NotNil(t, s.Result())

	ticket, err := s.Begin()
	require.NoError(t, err)
	assert.Nil(t, s.Result(), "result reset when a new submission begins")
	assert.True(t, s.Loading())

	s.Complete(ticket, nil, errors.New("boom"))
	assert.Nil(t, s.Result(), "failure never restores the old result")
}

func TestSubmitter_RefusesWhileLoading(t *testing.T) {
	s := NewSubmitter()
	_, err := s.Begin()
	require.NoError(t, err)

	_, err = s.Begin()
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	_, err = s.Submit(context.Background(), fixed(nil, nil), nil)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
}

func TestSubmitter_StaleCompletionDiscarded(t *testing.T) {
	s := NewSubmitter()
	first, err := s.Begin()
	require.NoError(t, err)
	s.Complete(first, nil, errors.New("timeout"))

	second, err := s.Begin()
	require.NoError(t, err)

	out := s.Complete(first, Result{"Stale": 0.9}, nil)
	assert.False(t, out.Applied)
	assert.True(t, s.Loading(), "stale completion must not clear the current submission")
	assert.Nil(t, s.Result())

	out = s.Complete(second, Result{"Fresh": 0.6}, nil)
	assert.True(t, out.Applied)
	assert.Equal(t, Result{"Fresh": 0.6}, s.Result())
}

func TestSubmitter_DetachDropsInFlight(t *testing.T) {
	s := NewSubmitter()
	ticket, err := s.Begin()
	require.NoError(t, err)

	s.Detach()
	assert.False(t, s.Loading())

	out := s.Complete(ticket, Result{"Late": 0.9}, nil)
	assert.False(t, out.Applied)
	assert.Nil(t, s.Result())

	// A new visit can submit again.
	out, err = s.Submit(context.Background(), fixed(Result{"Anxiety": 0.2}, nil), nil)
	require.NoError(t, err)
	assert.True(t, out.Applied)
}

func TestSubmitter_PanicClearsLoading(t *testing.T) {
	s := NewSubmitter()
	out, err := s.Submit(context.Background(), scorerFunc(func(context.Context, map[string]int) (Result, error) {
		panic("malformed payload")
	}), nil)
	require.NoError(t, err)

	assert.True(t, out.Applied)
	assert.ErrorContains(t, out.Err, "malformed payload")
	assert.False(t, s.Loading())
	assert.Nil(t, s.Result())
}

func TestSubmitter_AbsentProbabilitiesIsNotAnError(t *testing.T) {
	s := NewSubmitter()
	out, err := s.Submit(context.Background(), fixed(nil, nil), nil)
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.NoError(t, out.Err)
	assert.Nil(t, out.Result)
	assert.False(t, s.Loading())
}

func TestSubmitter_ResubmitSameAnswers(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	scorer := scorerFunc(func(_ context.Context, answers map[string]int) (Result, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return Result{"Stress": float64(answers["q21"]) / 4}, nil
	})

	s := NewSubmitter()
	answers := map[string]int{"q21": 2}
	for range 3 {
		out, err := s.Submit(context.Background(), scorer, answers)
		require.NoError(t, err)
		assert.Equal(t, Result{"Stress": 0.5}, out.Result)
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, map[string]int{"q21": 2}, answers)
}
