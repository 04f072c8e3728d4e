package prediction

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mindcare-ai/mindcare/internal/backend"
)

// ServiceName labels scoring calls in logs and the request log.
const ServiceName = "prediction"

// Scorer turns a complete answer mapping into category probabilities.
type Scorer interface {
	// Predict sends one scoring request. A nil Result with a nil error
	// means the service answered without a usable probabilities object.
	Predict(ctx context.Context, answers map[string]int) (Result, error)
}

// Client calls POST {base}/predict.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a scoring client for baseURL. httpClient is usually
// built with backend.NewHTTPClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// URL returns the scoring endpoint.
func (c *Client) URL() string {
	return backend.JoinURL(c.baseURL, "predict")
}

// Predict posts the answers as a flat JSON object. A reply that is valid
// JSON but not an object carries no probabilities and yields a nil Result.
func (c *Client) Predict(ctx context.Context, answers map[string]int) (Result, error) {
	var body json.RawMessage
	if err := backend.PostJSON(ctx, c.http, ServiceName, c.URL(), answers, &body); err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, nil
	}
	return parseProbabilities(fields["probabilities"]), nil
}

// parseProbabilities accepts only an object of category to number. Any
// other shape, including a missing field or null, yields a nil Result.
func parseProbabilities(raw json.RawMessage) Result {
	if len(raw) == 0 {
		return nil
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil
	}
	if res == nil {
		return nil
	}
	return res
}
