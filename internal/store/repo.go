package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
// Prompts and replies are never recorded.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// ServiceCallEventData captures one HTTP call to a backend service.
// Request and response bodies are never recorded.
type ServiceCallEventData struct {
	Service      string
	Method       string
	URL          string
	StatusCode   int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// ServiceCallEventRecord is a stored backend service call.
type ServiceCallEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ServiceCallEventData
}

// LLMUsage aggregates token usage for one model.
type LLMUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to the request log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendServiceCall records a backend HTTP call.
	AppendServiceCall(ctx context.Context, data ServiceCallEventData) error

	// QueryLLMEvents returns LLM events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns the LLM event with the given sequence, or nil.
	GetLLMEvent(ctx context.Context, seq int64) (*LLMRequestEventRecord, error)

	// QueryServiceCalls returns backend calls newest first.
	QueryServiceCalls(ctx context.Context, opts QueryOpts) ([]ServiceCallEventRecord, error)

	// GetServiceCall returns the backend call with the given sequence, or nil.
	GetServiceCall(ctx context.Context, seq int64) (*ServiceCallEventRecord, error)

	// LLMUsageByModel aggregates LLM token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
