package backend

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mindcare-ai/mindcare/internal/store"
)

// loggingTransport records one service call event per round trip. Only the
// method, URL, status and timing are kept; bodies are never read here.
type loggingTransport struct {
	service string
	next    http.RoundTripper
	repo    store.EventRepo
	logger  *zap.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)

	data := store.ServiceCallEventData{
		Service:   t.service,
		Method:    req.Method,
		URL:       redactURL(req),
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if resp != nil {
		data.StatusCode = resp.StatusCode
	}
	data.Success = err == nil && data.StatusCode >= 200 && data.StatusCode < 300
	if err != nil {
		data.ErrorMessage = err.Error()
	} else if !data.Success {
		data.ErrorMessage = http.StatusText(data.StatusCode)
	}

	fields := []zap.Field{
		zap.String("service", data.Service),
		zap.String("method", data.Method),
		zap.String("url", data.URL),
		zap.Int("status", data.StatusCode),
		zap.Int64("latency_ms", data.LatencyMs),
	}
	if data.Success {
		t.logger.Debug("service call", fields...)
	} else {
		t.logger.Warn("service call failed", append(fields, zap.String("error", data.ErrorMessage))...)
	}

	if t.repo != nil {
		if logErr := t.repo.AppendServiceCall(context.WithoutCancel(req.Context()), data); logErr != nil {
			t.logger.Warn("record service call event", zap.Error(logErr))
		}
	}

	return resp, err
}

// redactURL drops query strings and credentials from the recorded URL.
func redactURL(req *http.Request) string {
	u := *req.URL
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// CloseIdleConnections forwards to the wrapped transport so
// http.Client.CloseIdleConnections keeps working.
func (t *loggingTransport) CloseIdleConnections() {
	if ci, ok := t.next.(interface{ CloseIdleConnections() }); ok {
		ci.CloseIdleConnections()
	}
}
