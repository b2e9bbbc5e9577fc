package adapter

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterAdapter implements the Adapter interface for models reached
// through OpenRouter's OpenAI-compatible endpoint. It is the path to
// providers without a dedicated adapter (DeepSeek, Llama, Mistral).
type OpenRouterAdapter struct {
	client openai.Client
}

// NewOpenRouterAdapter creates a new OpenRouter adapter.
func NewOpenRouterAdapter(apiKey string) (*OpenRouterAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(openRouterBaseURL),
	)
	return &OpenRouterAdapter{client: client}, nil
}

// Name returns the adapter identifier.
func (a *OpenRouterAdapter) Name() string {
	return "openrouter"
}

// Models returns the OpenRouter models routed by default. Additional
// passthrough identifiers can be claimed via Registry.RegisterModel.
func (a *OpenRouterAdapter) Models() []string {
	return []string{
		"deepseek/deepseek-chat",
		"deepseek/deepseek-reasoner",
		"meta-llama/llama-3.3-70b-instruct",
	}
}

// Generate sends a prompt through OpenRouter and returns the generation.
func (a *OpenRouterAdapter) Generate(ctx context.Context, model string, prompt string, params Params) (*Generation, error) {
	return generateChatCompletion(ctx, a.client, "openrouter", model, prompt, params)
}
