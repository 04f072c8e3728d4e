package chat

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mindcare-ai/mindcare/internal/llm"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBook_NewSessionsNewestFirst(t *testing.T) {
	b := NewBook()
	assert.Nil(t, b.Active())

	first := b.NewSession()
	second := b.NewSession()

	assert.Equal(t, DefaultTitle, first.Title)
	assert.Equal(t, []*Session{second, first}, b.Sessions())
	assert.Same(t, second, b.Active())

	assert.True(t, b.Select(first.ID))
	assert.Same(t, first, b.Active())
	assert.False(t, b.Select(uuid.New()))
	assert.Same(t, first, b.Active())
}

func TestBook_PostCreatesSessionWhenNoneActive(t *testing.T) {
	b := NewBook()
	s, history, err := b.Post("I can't sleep", nil)
	require.NoError(t, err)

	assert.Len(t, b.Sessions(), 1)
	assert.Same(t, s, b.Active())
	assert.Equal(t, []Message{{Role: RoleUser, Text: "I can't sleep"}}, history)
	assert.True(t, b.Pending())
}

func TestBook_PostValidation(t *testing.T) {
	b := NewBook()
	_, _, err := b.Post("", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, b.Sessions())

	s, _, err := b.Post("", &llm.Image{MIMEType: "image/png", Data: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, ImagePlaceholder, s.Messages[0].Display())

	_, _, err = b.Post("again", nil)
	assert.ErrorIs(t, err, ErrReplyPending)
}

func TestBook_DeliverRenamesAfterFirstExchange(t *testing.T) {
	b := NewBook()
	s, _, err := b.Post("I have been feeling anxious about work lately", nil)
	require.NoError(t, err)

	renamed := b.Deliver(s.ID, Reply{Content: "That sounds stressful."})
	assert.True(t, renamed)
	assert.False(t, b.Pending())
	assert.Equal(t, "I have been feeling ...", s.Title)
	assert.Equal(t, "That sounds stressful.", s.Messages[1].Text)
	assert.Equal(t, RoleBot, s.Messages[1].Role)

	_, _, err = b.Post("and at home", nil)
	require.NoError(t, err)
	assert.False(t, b.Deliver(s.ID, Reply{Content: "I hear you."}))
	assert.Equal(t, "I have been feeling ...", s.Title)
}

func TestBook_DeliverFailureKeepsTitle(t *testing.T) {
	b := NewBook()
	s, _, _ := b.Post("hello", nil)

	assert.False(t, b.Deliver(s.ID, Reply{Err: errors.New("boom")}))
	assert.Equal(t, DefaultTitle, s.Title)
	assert.Equal(t, ErrorReply, s.Messages[1].Text)

	// The next successful exchange is no longer the first one.
	b.Post("still there?", nil)
	assert.False(t, b.Deliver(s.ID, Reply{Content: "yes"}))
	assert.Equal(t, DefaultTitle, s.Title)
}

func TestBook_DeliverImageOnlyNotRenamed(t *testing.T) {
	b := NewBook()
	s, _, _ := b.Post("", &llm.Image{MIMEType: "image/jpeg", Data: []byte{1}})
	assert.False(t, b.Deliver(s.ID, Reply{Content: "What a view."}))
	assert.Equal(t, DefaultTitle, s.Title)
}

func TestBook_DeliverToInactiveSession(t *testing.T) {
	b := NewBook()
	s, _, _ := b.Post("first chat", nil)
	other := b.NewSession()

	b.Deliver(s.ID, Reply{Content: "reply"})
	assert.Len(t, s.Messages, 2)
	assert.Empty(t, other.Messages)
	assert.Same(t, other, b.Active())
}

func TestFallbackTitle(t *testing.T) {
	assert.Equal(t, "short...", FallbackTitle("short"))
	assert.Equal(t, "exactly twenty chars...", FallbackTitle("exactly twenty chars"))
	assert.Equal(t, "ünïcödé ünïcödé ünïc...", FallbackTitle("ünïcödé ünïcödé ünïcödé"))
}

func TestReplyText(t *testing.T) {
	assert.Equal(t, ErrorReply, Reply{Err: errors.New("x"), Content: "ignored"}.Text())
	assert.Equal(t, EmptyReply, Reply{Content: "  \n"}.Text())
	assert.Equal(t, "ok", Reply{Content: "ok"}.Text())
}

func TestAssistant_Respond(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "  I'm here for you.  "})
	a := NewAssistant(mock, nil)

	img := &llm.Image{MIMEType: "image/png", Data: []byte("png")}
	reply := a.Respond(context.Background(), []Message{
		{Role: RoleUser, Text: "hi"},
		{Role: RoleBot, Text: ErrorReply},
		{Role: RoleUser, Text: "look", Image: img},
	})
	require.NoError(t, reply.Err)
	assert.Equal(t, "I'm here for you.", reply.Text())

	req, ok := mock.LastRequest()
	require.True(t, ok)
	assert.Equal(t, Persona, req.System)
	require.Len(t, req.Messages, 2, "canned failure replies are not sent back")
	assert.Equal(t, llm.RoleUser, req.Messages[1].Role)
	assert.Same(t, img, req.Messages[1].Image)
}

func TestAssistant_RespondFailureAndEmpty(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: json.RawMessage(`""`)},
	)
	a := NewAssistant(mock, nil)

	assert.Equal(t, ErrorReply, a.Respond(context.Background(), []Message{{Role: RoleUser, Text: "a"}}).Text())
	assert.Equal(t, EmptyReply, a.Respond(context.Background(), []Message{{Role: RoleUser, Text: "b"}}).Text())
}

func TestAssistant_Title(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"title":"Work anxiety"}`)},
		llm.MockResponse{Content: json.RawMessage(`{"name":"wrong shape"}`)},
		llm.MockResponse{Err: errors.New("down")},
	)
	a := NewAssistant(mock, nil)

	assert.Equal(t, "Work anxiety", a.Title(context.Background(), "I'm anxious about work", "That sounds hard."))
	req, _ := mock.LastRequest()
	require.NotNil(t, req.Schema)
	assert.Equal(t, "chat-title", req.Schema.Name)

	assert.Equal(t, "", a.Title(context.Background(), "x", "y"), "schema violation falls back")
	assert.Equal(t, "", a.Title(context.Background(), "x", "y"), "provider error falls back")
	assert.Equal(t, "", a.Title(context.Background(), "  ", "y"))
	assert.Equal(t, 3, mock.CallCount())
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "mood.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n0000"), 0o600))
	img, err := LoadImage(png)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)

	sniffed := filepath.Join(dir, "photo")
	require.NoError(t, os.WriteFile(sniffed, []byte("\xff\xd8\xff\xe0jpegdata"), 0o600))
	img, err = LoadImage(sniffed)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o600))
	_, err = LoadImage(txt)
	assert.Error(t, err)

	_, err = LoadImage(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
