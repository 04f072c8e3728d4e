package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestOpenFileDB.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFileDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mindcare.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestOpenTwiceKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mindcare.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EventRepo().AppendServiceCall(ctx, ServiceCallEventData{Service: "prediction", Method: "POST", URL: "http://x/predict", Success: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	calls, err := s.EventRepo().QueryServiceCalls(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("got %d calls after reopen, want 1", len(calls))
	}
	if err := s.EventRepo().AppendServiceCall(ctx, ServiceCallEventData{Service: "emotion"}); err != nil {
		t.Fatalf("append after reopen: %v", err)
	}
	calls, _ = s.EventRepo().QueryServiceCalls(ctx, QueryOpts{})
	if calls[0].Sequence <= calls[1].Sequence {
		t.Errorf("sequence did not advance across reopen: %d then %d", calls[1].Sequence, calls[0].Sequence)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		got, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != i {
			t.Errorf("Next() = %d, want %d", got, i)
		}
	}
}

func TestLLMRequestRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := LLMRequestEventData{
		Provider:     "gemini",
		Model:        "gemini-2.0-flash",
		Purpose:      "chat",
		InputTokens:  120,
		OutputTokens: 45,
		LatencyMs:    830,
		Success:      true,
	}
	if err := repo.AppendLLMRequest(ctx, data); err != nil {
		t.Fatalf("append: %v", err)
	}
	failed := data
	failed.Purpose = "chat-title"
	failed.Success = false
	failed.ErrorMessage = "rate limited"
	if err := repo.AppendLLMRequest(ctx, failed); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	// Newest first.
	if events[0].Purpose != "chat-title" || events[0].Success {
		t.Errorf("events[0] = %+v, want failed chat-title", events[0])
	}
	if events[1].LLMRequestEventData != data {
		t.Errorf("events[1] data = %+v, want %+v", events[1].LLMRequestEventData, data)
	}
	if time.Since(events[1].Timestamp) > time.Minute {
		t.Errorf("timestamp %v not recent", events[1].Timestamp)
	}

	got, err := repo.GetLLMEvent(ctx, events[0].Sequence)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ErrorMessage != "rate limited" {
		t.Errorf("GetLLMEvent = %+v, want rate limited event", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown sequence, got %+v", missing)
	}
}

func TestServiceCallsShareSequenceWithLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendServiceCall(ctx, ServiceCallEventData{Service: "prediction", Method: "POST", URL: "http://127.0.0.1:5000/predict", StatusCode: 200, Success: true}); err != nil {
		t.Fatalf("append call: %v", err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "chat", Success: true}); err != nil {
		t.Fatalf("append llm: %v", err)
	}
	if err := repo.AppendServiceCall(ctx, ServiceCallEventData{Service: "emotion", Method: "POST", URL: "http://127.0.0.1:5000/detect_emotion", StatusCode: 500, ErrorMessage: "boom"}); err != nil {
		t.Fatalf("append call: %v", err)
	}

	calls, err := repo.QueryServiceCalls(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	if calls[0].Sequence != 3 || calls[1].Sequence != 1 {
		t.Errorf("sequences = %d, %d; want 3, 1", calls[0].Sequence, calls[1].Sequence)
	}
	if calls[0].StatusCode != 500 || calls[0].Success {
		t.Errorf("calls[0] = %+v, want failed 500", calls[0])
	}

	llmEvent, err := repo.GetServiceCall(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if llmEvent != nil {
		t.Errorf("sequence 2 is an LLM event, got service call %+v", llmEvent)
	}
}

func TestQueryOpts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.AppendServiceCall(ctx, ServiceCallEventData{Service: "prediction", Method: "POST"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	tests := []struct {
		name string
		opts QueryOpts
		want []int64
	}{
		{"all", QueryOpts{}, []int64{5, 4, 3, 2, 1}},
		{"limit", QueryOpts{Limit: 2}, []int64{5, 4}},
		{"after", QueryOpts{After: 3}, []int64{5, 4}},
		{"before", QueryOpts{Before: 3}, []int64{2, 1}},
		{"window", QueryOpts{After: 1, Before: 5, Limit: 2}, []int64{4, 3}},
		{"future", QueryOpts{From: time.Now().Add(time.Hour)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, err := repo.QueryServiceCalls(ctx, tt.opts)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			var got []int64
			for _, c := range calls {
				got = append(got, c.Sequence)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("sequences = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLLMUsageByModel(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	usage, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage (empty): %v", err)
	}
	if len(usage) != 0 {
		t.Fatalf("expected no usage, got %+v", usage)
	}

	events := []LLMRequestEventData{
		{Model: "gemini-2.0-flash", InputTokens: 100, OutputTokens: 10, LatencyMs: 200},
		{Model: "gemini-2.0-flash", InputTokens: 50, OutputTokens: 30, LatencyMs: 400},
		{Model: "claude-haiku-4-5", InputTokens: 7, OutputTokens: 3, LatencyMs: 90},
	}
	for _, e := range events {
		e.Provider, e.Purpose = "test", "chat"
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	usage, err = repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	want := []LLMUsage{
		{Model: "claude-haiku-4-5", Calls: 1, InputTokens: 7, OutputTokens: 3, AvgLatencyMs: 90},
		{Model: "gemini-2.0-flash", Calls: 2, InputTokens: 150, OutputTokens: 40, AvgLatencyMs: 300},
	}
	if fmt.Sprint(usage) != fmt.Sprint(want) {
		t.Errorf("usage = %+v, want %+v", usage, want)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "x.db")
		t.Setenv("MINDCARE_DB", want)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("MINDCARE_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		if want := filepath.Join(dir, "mindcare", "mindcare.db"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestRecentMergesKinds(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	_ = repo.AppendServiceCall(ctx, ServiceCallEventData{Service: "prediction", Success: true})
	_ = repo.AppendLLMRequest(ctx, LLMRequestEventData{Model: "mock", Purpose: "chat", Success: true})
	_ = repo.AppendServiceCall(ctx, ServiceCallEventData{Service: "emotion"})

	all, err := Recent(ctx, repo, QueryOpts{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	var kinds []string
	for _, e := range all {
		kinds = append(kinds, fmt.Sprintf("%d:%s", e.Sequence, e.Kind()))
	}
	if got, want := fmt.Sprint(kinds), "[3:service 2:llm 1:service]"; got != want {
		t.Errorf("kinds = %s, want %s", got, want)
	}
	if all[0].Success() || !all[1].Success() {
		t.Errorf("success flags = %v, %v; want false, true", all[0].Success(), all[1].Success())
	}

	limited, err := Recent(ctx, repo, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("recent limited: %v", err)
	}
	if len(limited) != 2 || limited[1].Sequence != 2 {
		t.Errorf("limited = %+v, want sequences 3, 2", limited)
	}

	llmOnly, err := Recent(ctx, repo, QueryOpts{}, KindLLM)
	if err != nil {
		t.Fatalf("recent llm: %v", err)
	}
	if len(llmOnly) != 1 || llmOnly[0].LLM == nil {
		t.Errorf("llm only = %+v", llmOnly)
	}

	if _, err := Recent(ctx, repo, QueryOpts{}, "gems"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestMigrateCreatesIndexes(t *testing.T) {
	s := openTestStore(t)

	for _, table := range tables {
		for _, idx := range table.Indexes {
			var n int
			err := s.DB().QueryRow(
				"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?", idx.Name,
			).Scan(&n)
			if err != nil {
				t.Fatalf("lookup index %s: %v", idx.Name, err)
			}
			if n != 1 {
				t.Errorf("index %s on %s missing", idx.Name, table.Name)
			}
		}
	}
}
