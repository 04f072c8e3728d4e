package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mindcare-ai/mindcare/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingRepo struct {
	store.EventRepo
	calls []store.ServiceCallEventData
}

func (r *recordingRepo) AppendServiceCall(_ context.Context, data store.ServiceCallEventData) error {
	r.calls = append(r.calls, data)
	return nil
}

func TestJoinURL(t *testing.T) {
	tests := []struct{ base, path, want string }{
		{"http://127.0.0.1:5000", "predict", "http://127.0.0.1:5000/predict"},
		{"http://127.0.0.1:5000/", "/predict", "http://127.0.0.1:5000/predict"},
		{"https://api.example.com/v1//", "detect_emotion", "https://api.example.com/v1/detect_emotion"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinURL(tt.base, tt.path))
	}
}

func TestPostJSON_RecordsCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"emotion":"joy"}`))
	}))
	defer server.Close()

	repo := &recordingRepo{}
	core, logs := observer.New(zapcore.DebugLevel)
	client := NewHTTPClient("emotion", 0, repo, zap.New(core))
	defer client.CloseIdleConnections()

	var out struct{ Emotion string }
	err := PostJSON(context.Background(), client, "emotion", server.URL+"/detect_emotion?token=secret", map[string]string{"text": "private words"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "joy", out.Emotion)

	require.Len(t, repo.calls, 1)
	call := repo.calls[0]
	assert.Equal(t, "emotion", call.Service)
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, server.URL+"/detect_emotion", call.URL, "query string is not recorded")
	assert.Equal(t, http.StatusOK, call.StatusCode)
	assert.True(t, call.Success)
	assert.Equal(t, 1, logs.FilterMessage("service call").Len())
}

func TestPostJSON_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error":"No text provided"}`, "No text provided"},
		{"error and details", http.StatusInternalServerError, `{"error":"Prediction failed","details":"shape mismatch"}`, "Prediction failed (shape mismatch)"},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down"},
		{"html page", http.StatusNotFound, "<!doctype html><h1>Not Found</h1>", ""},
		{"empty", http.StatusServiceUnavailable, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			repo := &recordingRepo{}
			client := NewHTTPClient("prediction", 0, repo, nil)
			defer client.CloseIdleConnections()

			err := PostJSON(context.Background(), client, "prediction", server.URL, struct{}{}, nil)
			var se *StatusError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.message, se.Message)
			assert.Contains(t, se.Error(), "prediction service returned")

			require.Len(t, repo.calls, 1)
			assert.False(t, repo.calls[0].Success)
			assert.Equal(t, tt.status, repo.calls[0].StatusCode)
		})
	}
}

func TestPostJSON_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	repo := &recordingRepo{}
	client := NewHTTPClient("journal", 0, repo, nil)
	err := PostJSON(context.Background(), client, "journal", url, struct{}{}, nil)
	require.Error(t, err)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
	require.Len(t, repo.calls, 1)
	assert.False(t, repo.calls[0].Success)
	assert.NotEmpty(t, repo.calls[0].ErrorMessage)
}

func TestPostJSON_BadReplyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewHTTPClient("prediction", 0, nil, nil)
	defer client.CloseIdleConnections()

	var out map[string]any
	err := PostJSON(context.Background(), client, "prediction", server.URL, struct{}{}, &out)
	assert.ErrorContains(t, err, "decode prediction response")
}
