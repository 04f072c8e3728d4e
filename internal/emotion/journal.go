package emotion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mindcare-ai/mindcare/internal/backend"
)

// DefaultJournalName is the upload filename when the source has none.
const DefaultJournalName = "journal.webm"

// JournalTimeout covers transcription and frame analysis on the server.
const JournalTimeout = 5 * time.Minute

// Expression is the detected facial emotion at one sampled frame.
type Expression struct {
	Frame   int    `json:"frame"`
	Emotion string `json:"emotion"`
}

// JournalAnalysis is the backend's reading of a video journal entry.
type JournalAnalysis struct {
	Transcript string       `json:"transcript"`
	TopEmotion string       `json:"top_emotion"`
	Timeline   []Expression `json:"expression_timeline"`
	Advice     string       `json:"advice"`
}

// JournalClient calls POST {base}/analyze-journal.
type JournalClient struct {
	baseURL string
	http    *http.Client
}

// NewJournalClient returns a journal client for baseURL.
func NewJournalClient(baseURL string, httpClient *http.Client) *JournalClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &JournalClient{baseURL: baseURL, http: httpClient}
}

// URL returns the analysis endpoint.
func (c *JournalClient) URL() string {
	return backend.JoinURL(c.baseURL, "analyze-journal")
}

// AnalyzeFile uploads the recording at path.
func (c *JournalClient) AnalyzeFile(ctx context.Context, path string) (*JournalAnalysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat recording: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return c.Analyze(ctx, filepath.Base(path), f)
}

// Analyze uploads video as multipart field "video". An empty filename is
// sent as DefaultJournalName.
func (c *JournalClient) Analyze(ctx context.Context, filename string, video io.Reader) (*JournalAnalysis, error) {
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		filename = DefaultJournalName
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("video", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, video); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), &body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", JournalService, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out JournalAnalysis
	if err := backend.Do(c.http, JournalService, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
