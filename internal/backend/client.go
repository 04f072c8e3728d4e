// Package backend holds the HTTP plumbing shared by the prediction and
// emotion service clients: a request-logging transport, JSON posting and
// error decoding for non-2xx replies.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mindcare-ai/mindcare/internal/store"
)

// DefaultTimeout bounds one backend call. Journal uploads run model
// inference server-side and get a longer budget from their caller.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is read for the message.
const maxErrorBody = 64 << 10

// NewHTTPClient returns an *http.Client for the named service whose
// transport records every call in repo and the logger. repo and logger may
// be nil.
func NewHTTPClient(service string, timeout time.Duration, repo store.EventRepo, logger *zap.Logger) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &loggingTransport{
			service: service,
			next:    http.DefaultTransport,
			repo:    repo,
			logger:  logger,
		},
	}
}

// JoinURL appends path to base, tolerating a trailing slash on base.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// PostJSON marshals body, posts it to url and decodes a 2xx reply into out.
// Non-2xx replies are returned as *StatusError.
func PostJSON(ctx context.Context, client *http.Client, service, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", service, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return Do(client, service, req, out)
}

// Do sends req and decodes a 2xx JSON reply into out (skipped when out is
// nil). Non-2xx replies are returned as *StatusError.
func Do(client *http.Client, service string, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	defer resp.Body.Close()

	if err := CheckResponse(service, resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", service, err)
	}
	return nil
}

// CheckResponse returns a *StatusError for a non-2xx response, reading the
// body for the server's error message.
func CheckResponse(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Service:    service,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(body),
	}
}
