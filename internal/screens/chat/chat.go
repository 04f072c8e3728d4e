// Package chat is the assistant screen: a session sidebar, the transcript
// of the active session, and a message input.
package chat

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mindcare-ai/mindcare/internal/chat"
	"github.com/mindcare-ai/mindcare/internal/llm"
	"github.com/mindcare-ai/mindcare/internal/screen"
	"github.com/mindcare-ai/mindcare/internal/ui/components"
	"github.com/mindcare-ai/mindcare/internal/ui/layout"
)

// Assistant produces replies and session titles.
type Assistant interface {
	Respond(ctx context.Context, history []chat.Message) chat.Reply
	Title(ctx context.Context, firstMessage, firstReply string) string
}

// Commands typed into the input.
const (
	cmdNew   = "/new"
	cmdImage = "/image"
)

// replyMsg carries an assistant reply for session id.
type replyMsg struct {
	id    uuid.UUID
	reply chat.Reply
}

// titleMsg carries a generated title for session id.
type titleMsg struct {
	id    uuid.UUID
	title string
}

// Screen implements screen.Screen for the chat assistant.
type Screen struct {
	assistant Assistant
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	book     *chat.Book
	input    components.TextInput
	spinner  spinner.Model
	markdown components.Markdown

	attachment     *llm.Image
	attachmentName string
	notice         string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates an empty chat screen.
func New(assistant Assistant, logger *zap.Logger) *Screen {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Screen{
		assistant: assistant,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		book:      chat.NewBook(),
		input:     components.NewTextInput("Type your message... (/image <path> to attach)", false, 2000),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	return "Chat Assistant"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+N", Description: "New chat"},
		{Key: "PgUp/PgDn", Description: "Switch chat"},
		{Key: "Esc", Description: "Back"},
	}
}

// Book exposes the sessions, newest first.
func (s *Screen) Book() *chat.Book {
	return s.book
}

// Close cancels an outstanding reply; late replies are dropped.
func (s *Screen) Close() {
	s.closed = true
	s.cancel()
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		return s, s.handleReply(msg)

	case titleMsg:
		if !s.closed && msg.title != "" {
			s.book.Rename(msg.id, msg.title)
		}
		return s, nil

	case spinner.TickMsg:
		if !s.book.Pending() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+n":
			s.book.NewSession()
			return s, nil
		case "pgup":
			s.selectRelative(-1)
			return s, nil
		case "pgdown":
			s.selectRelative(1)
			return s, nil
		case "enter":
			if s.book.Pending() {
				return s, nil
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// selectRelative moves the active session up or down the sidebar.
func (s *Screen) selectRelative(delta int) {
	sessions := s.book.Sessions()
	if len(sessions) == 0 {
		return
	}
	idx := 0
	if active := s.book.Active(); active != nil {
		for i, ss := range sessions {
			if ss.ID == active.ID {
				idx = i
				break
			}
		}
	}
	idx += delta
	if idx < 0 || idx >= len(sessions) {
		return
	}
	s.book.Select(sessions[idx].ID)
}

// submit handles the input line: a command, or a message to send.
func (s *Screen) submit() tea.Cmd {
	line := strings.TrimSpace(s.input.Value())
	s.notice = ""

	switch {
	case line == cmdNew:
		s.input.Reset()
		s.book.NewSession()
		return nil
	case line == cmdImage || strings.HasPrefix(line, cmdImage+" "):
		s.input.Reset()
		s.attach(strings.TrimSpace(strings.TrimPrefix(line, cmdImage)))
		return nil
	}

	session, history, err := s.book.Post(line, s.attachment)
	if err != nil {
		return nil
	}
	s.input.Reset()
	s.input.SetDisabled(true)
	s.attachment, s.attachmentName = nil, ""
	s.logger.Info("chat message sent",
		zap.String("session", session.ID.String()),
		zap.Int("history", len(history)))

	ctx, assistant, id := s.ctx, s.assistant, session.ID
	respond := func() tea.Msg {
		return replyMsg{id: id, reply: assistant.Respond(ctx, history)}
	}
	return tea.Batch(respond, s.spinner.Tick)
}

func (s *Screen) attach(path string) {
	if path == "" {
		s.notice = "Usage: /image <path>"
		return
	}
	img, err := chat.LoadImage(path)
	if err != nil {
		s.notice = err.Error()
		return
	}
	s.attachment = img
	s.attachmentName = path
}

// handleReply delivers a reply and, after the first successful exchange,
// asks for a generated title to replace the fallback one.
func (s *Screen) handleReply(msg replyMsg) tea.Cmd {
	if s.closed {
		return nil
	}
	s.input.SetDisabled(false)
	renamed := s.book.Deliver(msg.id, msg.reply)
	if !renamed {
		return nil
	}

	session, ok := s.book.Lookup(msg.id)
	if !ok || len(session.Messages) < 2 {
		return nil
	}
	first, reply := session.Messages[0].Text, msg.reply.Text()
	ctx, assistant, id := s.ctx, s.assistant, msg.id
	return func() tea.Msg {
		return titleMsg{id: id, title: assistant.Title(ctx, first, reply)}
	}
}
