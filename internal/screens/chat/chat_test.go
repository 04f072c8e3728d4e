package chat

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcare-ai/mindcare/internal/chat"
	"github.com/mindcare-ai/mindcare/internal/llm"
)

type fakeAssistant struct {
	reply   chat.Reply
	title   string
	history []chat.Message
}

func (f *fakeAssistant) Respond(_ context.Context, history []chat.Message) chat.Reply {
	f.history = history
	return f.reply
}

func (f *fakeAssistant) Title(_ context.Context, _, _ string) string {
	return f.title
}

func typeText(s *Screen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func enter(s *Screen) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func runReply(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "expected batched command")
	return batch[0]()
}

func TestChat_EmptyView(t *testing.T) {
	s := New(&fakeAssistant{}, nil)
	view := s.View(120, 30)
	assert.Contains(t, view, SidebarTitle)
	assert.Contains(t, view, NoChats)
	assert.Contains(t, view, NoMessages)
}

func TestChat_SendAndTitle(t *testing.T) {
	a := &fakeAssistant{reply: chat.Reply{Content: "Try a short walk."}, title: "Evening walk"}
	s := New(a, nil)

	typeText(s, "I feel restless tonight")
	cmd := enter(s)
	require.True(t, s.Book().Pending())
	assert.Equal(t, "", s.input.Value())

	// Sending is blocked until the reply lands.
	typeText(s, "again")
	assert.Nil(t, enter(s))

	msg := runReply(t, cmd)
	_, titleCmd := s.Update(msg)
	require.Len(t, a.history, 1)
	assert.Equal(t, "I feel restless tonight", a.history[0].Text)

	active := s.Book().Active()
	require.NotNil(t, active)
	assert.False(t, s.Book().Pending())
	assert.Len(t, active.Messages, 2)
	assert.Equal(t, chat.FallbackTitle("I feel restless tonight"), active.Title)

	require.NotNil(t, titleCmd)
	s.Update(titleCmd())
	assert.Equal(t, "Evening walk", active.Title)
	assert.Contains(t, s.View(120, 30), "Evening walk")
}

func TestChat_FailedReplyKeepsTitle(t *testing.T) {
	a := &fakeAssistant{reply: chat.Reply{Err: assert.AnError}}
	s := New(a, nil)

	typeText(s, "hello")
	_, titleCmd := s.Update(runReply(t, enter(s)))

	assert.Nil(t, titleCmd)
	assert.Equal(t, chat.DefaultTitle, s.Book().Active().Title)
	assert.Equal(t, chat.ErrorReply, s.Book().Active().Messages[1].Text)
}

func TestChat_EmptyTitleIgnored(t *testing.T) {
	s := New(&fakeAssistant{reply: chat.Reply{Content: "ok"}}, nil)
	typeText(s, "hello there")
	_, titleCmd := s.Update(runReply(t, enter(s)))
	require.NotNil(t, titleCmd)
	s.Update(titleCmd())
	assert.Equal(t, chat.FallbackTitle("hello there"), s.Book().Active().Title)
}

func TestChat_EmptyInputNotSent(t *testing.T) {
	s := New(&fakeAssistant{}, nil)
	typeText(s, "   ")
	assert.Nil(t, enter(s))
	assert.Empty(t, s.Book().Sessions())
}

func TestChat_NewAndSwitchSessions(t *testing.T) {
	s := New(&fakeAssistant{}, nil)

	typeText(s, "/new")
	assert.Nil(t, enter(s))
	first := s.Book().Active()
	s.Update(tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	second := s.Book().Active()

	require.Len(t, s.Book().Sessions(), 2)
	assert.NotEqual(t, first.ID, second.ID)

	s.Update(tea.KeyPressMsg{Code: tea.KeyPgDown})
	assert.Equal(t, first.ID, s.Book().Active().ID)
	s.Update(tea.KeyPressMsg{Code: tea.KeyPgDown})
	assert.Equal(t, first.ID, s.Book().Active().ID)
	s.Update(tea.KeyPressMsg{Code: tea.KeyPgUp})
	assert.Equal(t, second.ID, s.Book().Active().ID)
}

func TestChat_ImageAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mood.png")
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	require.NoError(t, os.WriteFile(path, png, 0o600))

	a := &fakeAssistant{reply: chat.Reply{Content: "Nice colours."}}
	s := New(a, nil)

	typeText(s, "/image "+path)
	assert.Nil(t, enter(s))
	assert.Contains(t, s.View(120, 30), "Attached: "+path)

	// Image-only message.
	s.Update(runReply(t, enter(s)))
	require.Len(t, a.history, 1)
	require.NotNil(t, a.history[0].Image)
	assert.Equal(t, "image/png", a.history[0].Image.MIMEType)
	assert.Equal(t, chat.ImagePlaceholder, a.history[0].Display())
	assert.NotContains(t, s.View(120, 30), "Attached:")
}

func TestChat_ImageErrors(t *testing.T) {
	s := New(&fakeAssistant{}, nil)

	typeText(s, "/image")
	enter(s)
	assert.Contains(t, s.View(120, 30), "Usage: /image <path>")

	typeText(s, "/image "+filepath.Join(t.TempDir(), "missing.png"))
	enter(s)
	assert.Nil(t, s.attachment)
}

func TestChat_LateReplyAfterClose(t *testing.T) {
	s := New(&fakeAssistant{reply: chat.Reply{Content: "late"}}, nil)
	typeText(s, "hi")
	msg := runReply(t, enter(s))

	s.Close()
	_, cmd := s.Update(msg)
	assert.Nil(t, cmd)
	assert.Len(t, s.Book().Active().Messages, 1)
}

func TestChat_WithMockProvider(t *testing.T) {
	provider := llm.NewEchoProvider("Breathe in for four counts.")
	s := New(chat.NewAssistant(provider, nil), nil)

	typeText(s, "panic at work")
	s.Update(runReply(t, enter(s)))

	msgs := s.Book().Active().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "Breathe in for four counts.", msgs[1].Text)
	assert.Contains(t, s.View(120, 40), "Breathe")
}
