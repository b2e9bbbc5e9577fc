package adapter

import "time"

// Usage captures normalized token usage for one generation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Params carries per-call generation parameters.
type Params struct {
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// DefaultMaxTokens is used when a caller does not set Params.MaxTokens.
const DefaultMaxTokens = 4096

// Generation is one model's output for one invocation.
// Model and Latency are filled by the registry, not by individual adapters.
type Generation struct {
	Model   string        `json:"model"`
	Text    string        `json:"text"`
	Usage   Usage         `json:"usage"`
	Latency time.Duration `json:"latency"`
}

func (p Params) maxTokens() int {
	if p.MaxTokens > 0 {
		return p.MaxTokens
	}
	return DefaultMaxTokens
}
