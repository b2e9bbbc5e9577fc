package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIAdapter implements the Adapter interface for OpenAI models.
type OpenAIAdapter struct {
	client openai.Client
}

// NewOpenAIAdapter creates a new OpenAI adapter.
func NewOpenAIAdapter(apiKey string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIAdapter{client: client}, nil
}

// Name returns the adapter identifier.
func (a *OpenAIAdapter) Name() string {
	return "openai"
}

// Models returns the list of supported OpenAI models.
func (a *OpenAIAdapter) Models() []string {
	return []string{
		"gpt-5.2-instant",
		"gpt-5.2-thinking",
		"gpt-5.2-pro",
	}
}

// Generate sends a prompt to OpenAI and returns the generation.
func (a *OpenAIAdapter) Generate(ctx context.Context, model string, prompt string, params Params) (*Generation, error) {
	return generateChatCompletion(ctx, a.client, "openai", model, prompt, params)
}

// generateChatCompletion is shared by the OpenAI and OpenRouter adapters,
// which both speak the OpenAI chat-completion protocol.
func generateChatCompletion(ctx context.Context, client openai.Client, provider, model, prompt string, params Params) (*Generation, error) {
	req := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(params.maxTokens())),
	}
	if params.Temperature > 0 {
		req.Temperature = openai.Float(params.Temperature)
	}

	resp, err := client.Chat.Completions.New(ctx, req)
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return nil, &ProviderError{
				Model:  model,
				Kind:   KindForStatus(apierr.StatusCode),
				Status: apierr.StatusCode,
				Err:    err,
			}
		}
		return nil, fmt.Errorf("%s API error: %w", provider, err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{
			Model: model,
			Kind:  KindInvalidResponse,
			Err:   fmt.Errorf("%s returned no choices", provider),
		}
	}

	return &Generation{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}
