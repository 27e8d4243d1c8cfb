package llm

import (
	"context"
	"time"
)

// Role labels a chat message.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat message sent to a reasoning provider.
type Message struct {
	Role    string
	Content string
}

// Provider defines the interface for reasoning providers. The returned string
// is untyped at this boundary; callers are responsible for parsing it into
// whatever shape they asked the model for.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends the messages and returns the model's raw text response
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Config holds reasoning provider configuration
type Config struct {
	// Provider name: "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, LiteLLM proxies)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		Timeout:  60 * time.Second,
	}
}
