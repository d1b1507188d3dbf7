package openai

import (
	"github.com/sashabaranov/go-openai"
)

// NewClient builds an OpenAI client for the given API key. The optional
// baseURL override exists so tests can point the client at a local server.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
