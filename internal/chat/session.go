// Package chat keeps the in-memory chat sessions of the assistant view and
// talks to the language model on their behalf.
package chat

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mindcare-ai/mindcare/internal/llm"
)

// DefaultTitle names a session until its first exchange.
const DefaultTitle = "New Chat"

// ImagePlaceholder is shown for a message that carries only an image.
const ImagePlaceholder = "[Image]"

// ErrEmptyMessage is returned when a message has neither text nor image.
var ErrEmptyMessage = errors.New("message needs text or an image")

// ErrReplyPending is returned when sending while a reply is outstanding.
var ErrReplyPending = errors.New("waiting for the assistant to reply")

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one entry of a chat transcript.
type Message struct {
	Role  Role
	Text  string
	Image *llm.Image
}

// Display returns the text shown in the transcript.
func (m Message) Display() string {
	if m.Text == "" && m.Image != nil {
		return ImagePlaceholder
	}
	return m.Text
}

// Session is one conversation.
type Session struct {
	ID        uuid.UUID
	Title     string
	Messages  []Message
	CreatedAt time.Time

	// titled is set once the first exchange renamed the session.
	titled bool
}

// Book holds all sessions of a chat view, newest first, and tracks the
// active one. It is owned by the view and not safe for concurrent use.
type Book struct {
	sessions []*Session
	active   *Session
	pending  uuid.UUID
}

// NewBook returns an empty Book with no active session.
func NewBook() *Book {
	return &Book{}
}

// NewSession creates a session titled DefaultTitle, puts it first and makes
// it active.
func (b *Book) NewSession() *Session {
	s := &Session{
		ID:        uuid.New(),
		Title:     DefaultTitle,
		CreatedAt: time.Now(),
	}
	b.sessions = append([]*Session{s}, b.sessions...)
	b.active = s
	return s
}

// Sessions returns the sessions newest first.
func (b *Book) Sessions() []*Session {
	return b.sessions
}

// Active returns the active session, or nil.
func (b *Book) Active() *Session {
	return b.active
}

// Select makes the session with id active.
func (b *Book) Select(id uuid.UUID) bool {
	for _, s := range b.sessions {
		if s.ID == id {
			b.active = s
			return true
		}
	}
	return false
}

// Lookup finds a session by id.
func (b *Book) Lookup(id uuid.UUID) (*Session, bool) {
	for _, s := range b.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Pending reports whether a reply is outstanding.
func (b *Book) Pending() bool {
	return b.pending != uuid.Nil
}

// Post appends a user message to the active session, creating one if
// needed, and marks a reply as pending. It returns the session and the
// history to send to the model.
func (b *Book) Post(text string, image *llm.Image) (*Session, []Message, error) {
	if b.Pending() {
		return nil, nil, ErrReplyPending
	}
	if text == "" && image == nil {
		return nil, nil, ErrEmptyMessage
	}
	s := b.active
	if s == nil {
		s = b.NewSession()
	}
	s.Messages = append(s.Messages, Message{Role: RoleUser, Text: text, Image: image})
	b.pending = s.ID

	history := make([]Message, len(s.Messages))
	copy(history, s.Messages)
	return s, history, nil
}

// Deliver appends the bot reply to the session that asked and clears the
// pending flag. A successful first exchange with text renames the session
// to FallbackTitle; it reports whether that happened.
func (b *Book) Deliver(id uuid.UUID, reply Reply) (renamed bool) {
	if b.pending == id {
		b.pending = uuid.Nil
	}
	s, ok := b.Lookup(id)
	if !ok {
		return false
	}
	s.Messages = append(s.Messages, Message{Role: RoleBot, Text: reply.Text()})

	if reply.Err != nil || s.titled {
		return false
	}
	first := firstUserText(s)
	if first == "" {
		return false
	}
	s.Title = FallbackTitle(first)
	s.titled = true
	return true
}

// Rename sets a session title, for example from a generated title.
func (b *Book) Rename(id uuid.UUID, title string) {
	if s, ok := b.Lookup(id); ok && title != "" {
		s.Title = title
	}
}

// FallbackTitle is the first 20 characters of the user's first message
// followed by "...".
func FallbackTitle(text string) string {
	r := []rune(text)
	if len(r) > 20 {
		r = r[:20]
	}
	return string(r) + "..."
}

// firstUserText returns the text of the only user message when the session
// has exactly one exchange so far.
func firstUserText(s *Session) string {
	users := 0
	text := ""
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			users++
			text = m.Text
		}
	}
	if users != 1 {
		return ""
	}
	return text
}
