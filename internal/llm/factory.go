package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mindcare-ai/mindcare/internal/store"
)

// mockReply is what the "mock" provider answers when no API key is set up.
const mockReply = "I'm running in offline mode, so I can't give a real answer right now. " +
	"If you are struggling, please reach out to someone you trust or a local support line."

// NewProvider creates a Provider from configuration, wrapped with timeout,
// retry and logging middleware:
//
//	caller → timeout → retry → logging → base
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewEchoProvider(mockReply)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, eventRepo, logger)
	retried := WithRetry(logged, cfg.Retry)
	return WithTimeout(retried, cfg.Timeout), nil
}
