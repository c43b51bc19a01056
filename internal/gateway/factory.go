package gateway

import (
	"context"
	"fmt"
	"strings"
)

// New builds the gateway for the configured provider.
func New(ctx context.Context, cfg Settings) (Gateway, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		return NewGeminiGateway(ctx, cfg)
	case "openai":
		return NewOpenAIGateway(cfg)
	case "deepseek":
		// OpenAI-compatible endpoint; base_url is mandatory.
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("model provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return NewOpenAIGateway(cfg)
	case "mock":
		return MockGateway{}, nil
	default:
		return nil, fmt.Errorf("model provider %s not supported", cfg.Provider)
	}
}
