// Package emotion talks to the emotion backend: text emotion detection and
// video journal analysis.
package emotion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/mindcare-ai/mindcare/internal/backend"
)

// Service names used in logs and the request log.
const (
	DetectService  = "emotion"
	JournalService = "journal"
)

// User-facing texts of the check-in view.
const (
	Greeting      = "Hi! How are you feeling today?"
	DetectFailure = "Sorry, I couldn't detect your emotion right now."
)

// ErrEmptyText is returned for blank input; nothing is sent.
var ErrEmptyText = errors.New("text is empty")

// Detection is the backend's reading of one message.
type Detection struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Message renders the detection the way the check-in view shows it.
func (d Detection) Message() string {
	return fmt.Sprintf("I detect your emotion as %q with confidence %.1f%%.", d.Emotion, d.Confidence*100)
}

// Client calls POST {base}/detect_emotion.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a detection client for baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// URL returns the detection endpoint.
func (c *Client) URL() string {
	return backend.JoinURL(c.baseURL, "detect_emotion")
}

// Detect sends text for emotion detection. Blank text fails with
// ErrEmptyText without a request.
func (c *Client) Detect(ctx context.Context, text string) (Detection, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Detection{}, ErrEmptyText
	}

	var d Detection
	body := map[string]string{"text": text}
	if err := backend.PostJSON(ctx, c.http, DetectService, c.URL(), body, &d); err != nil {
		return Detection{}, err
	}
	if d.Emotion == "" {
		return Detection{}, fmt.Errorf("%s response has no emotion", DetectService)
	}
	return d, nil
}

// Share is one emotion's portion of an expression timeline.
type Share struct {
	Emotion  string
	Count    int
	Fraction float64
}

// Distribution counts each emotion in the timeline and returns its share
// of all entries, largest first, ties by name.
func Distribution(timeline []Expression) []Share {
	if len(timeline) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, e := range timeline {
		counts[e.Emotion]++
	}
	out := make([]Share, 0, len(counts))
	for emo, n := range counts {
		out = append(out, Share{Emotion: emo, Count: n, Fraction: float64(n) / float64(len(timeline))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out
}
