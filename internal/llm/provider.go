package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/litmap/internal/model"
)

// Provider is a chat-completion backend for the optional location
// suggester. Suggestions are proposals only; they go through the same
// interactive review as heuristic extractions and never bypass it.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a prompt and returns the raw completion text
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// NewProvider creates the configured provider. "openai" talks to the
// OpenAI API; "ollama" is the same wire protocol against a local
// endpoint.
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "ollama":
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434/v1"
		}
		if cfg.APIKey == "" {
			cfg.APIKey = "ollama" // the client requires a token, the server ignores it
		}
		return NewOpenAIProvider(cfg)
	case "":
		return nil, fmt.Errorf("no LLM provider configured")
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
