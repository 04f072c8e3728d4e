package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mindcare-ai/mindcare/internal/llm"
)

// Persona is the assistant's system prompt.
const Persona = "You are a compassionate and empathetic mental health assistant. " +
	"Always respond with kindness, understanding, and supportive language, " +
	"keeping the user's emotional well-being in mind."

// Fixed bot messages for failed or empty replies.
const (
	ErrorReply = "Error getting response from the assistant."
	EmptyReply = "No response from the assistant."
)

const (
	replyMaxTokens = 1024
	titleMaxTokens = 64
	maxTitleLen    = 40
)

// Reply is the outcome of one assistant turn.
type Reply struct {
	Content string
	Err     error
}

// Text is the bot message to show for this reply.
func (r Reply) Text() string {
	switch {
	case r.Err != nil:
		return ErrorReply
	case strings.TrimSpace(r.Content) == "":
		return EmptyReply
	default:
		return r.Content
	}
}

// Assistant sends chat history to a language model.
type Assistant struct {
	provider llm.Provider
	logger   *zap.Logger
	titles   *llm.Schema
}

// sessionTitle is the structured output requested for a chat title.
type sessionTitle struct {
	Title string `json:"title" jsonschema:"description=A short title for the conversation (2 to 5 words),minLength=1,maxLength=40"`
}

// NewAssistant returns an Assistant backed by provider. Generated titles
// are disabled if the title schema cannot be built.
func NewAssistant(provider llm.Provider, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Assistant{provider: provider, logger: logger}
	schema, err := llm.SchemaFor[sessionTitle]("chat-title", "A short, gentle title summarising a support conversation")
	if err != nil {
		logger.Warn("chat title schema unavailable", zap.Error(err))
	} else {
		a.titles = schema
	}
	return a
}

// Respond asks the model for the next bot message given the session
// history, oldest first.
func (a *Assistant) Respond(ctx context.Context, history []Message) Reply {
	req := llm.Request{
		System:      Persona,
		Messages:    toLLMMessages(history),
		MaxTokens:   replyMaxTokens,
		Temperature: 0.7,
	}
	resp, err := a.provider.Generate(llm.WithPurpose(ctx, llm.PurposeChat), req)
	if err != nil {
		a.logger.Warn("assistant reply failed", zap.Error(err))
		return Reply{Err: err}
	}
	return Reply{Content: strings.TrimSpace(resp.Text())}
}

// Title asks the model for a short session title based on the first
// exchange. It returns "" when no valid title could be produced.
func (a *Assistant) Title(ctx context.Context, firstMessage, firstReply string) string {
	if a.titles == nil || strings.TrimSpace(firstMessage) == "" {
		return ""
	}
	req := llm.Request{
		System: "Write a short, neutral title for this support conversation. " +
			"Do not include names or diagnoses.",
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "User: " + firstMessage + "\n\nAssistant: " + firstReply},
		},
		Schema:    a.titles,
		MaxTokens: titleMaxTokens,
	}
	resp, err := a.provider.Generate(llm.WithPurpose(ctx, llm.PurposeChatTitle), req)
	if err != nil {
		a.logger.Debug("chat title failed", zap.Error(err))
		return ""
	}
	t, err := llm.Decode[sessionTitle](resp)
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(t.Title)
	if r := []rune(title); len(r) > maxTitleLen {
		title = string(r[:maxTitleLen])
	}
	return title
}

func toLLMMessages(history []Message) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == RoleBot {
			role = llm.RoleAssistant
			// Canned failure texts are not model output.
			if m.Text == ErrorReply || m.Text == EmptyReply {
				continue
			}
		}
		out = append(out, llm.Message{Role: role, Content: m.Text, Image: m.Image})
	}
	return out
}
