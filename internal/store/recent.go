package store

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Event kinds.
const (
	KindLLM     = "llm"
	KindService = "service"
)

// Event is one request-log entry of either kind. Exactly one of LLM and
// Service is set.
type Event struct {
	Sequence  int64
	Timestamp time.Time
	LLM       *LLMRequestEventRecord
	Service   *ServiceCallEventRecord
}

// Kind returns KindLLM or KindService.
func (e Event) Kind() string {
	if e.LLM != nil {
		return KindLLM
	}
	return KindService
}

// Success reports whether the recorded call succeeded.
func (e Event) Success() bool {
	if e.LLM != nil {
		return e.LLM.Success
	}
	return e.Service != nil && e.Service.Success
}

// Recent merges LLM and service events newest first. kinds selects which
// tables to read; none means both. opts.Limit applies to the merged list.
func Recent(ctx context.Context, repo EventRepo, opts QueryOpts, kinds ...string) ([]Event, error) {
	want := map[string]bool{KindLLM: len(kinds) == 0, KindService: len(kinds) == 0}
	for _, k := range kinds {
		if k != KindLLM && k != KindService {
			return nil, fmt.Errorf("unknown event kind %q", k)
		}
		want[k] = true
	}

	var events []Event
	if want[KindLLM] {
		records, err := repo.QueryLLMEvents(ctx, opts)
		if err != nil {
			return nil, err
		}
		for i := range records {
			r := &records[i]
			events = append(events, Event{Sequence: r.Sequence, Timestamp: r.Timestamp, LLM: r})
		}
	}
	if want[KindService] {
		records, err := repo.QueryServiceCalls(ctx, opts)
		if err != nil {
			return nil, err
		}
		for i := range records {
			r := &records[i]
			events = append(events, Event{Sequence: r.Sequence, Timestamp: r.Timestamp, Service: r})
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Sequence > events[j].Sequence })
	if opts.Limit > 0 && len(events) > opts.Limit {
		events = events[:opts.Limit]
	}
	return events, nil
}
