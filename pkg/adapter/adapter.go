package adapter

import (
	"context"
)

// Adapter defines the interface for LLM provider adapters.
type Adapter interface {
	// Generate sends a prompt to the model and returns the generation.
	Generate(ctx context.Context, model string, prompt string, params Params) (*Generation, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}

// Info holds metadata about an adapter for listing commands.
type Info struct {
	Name   string
	Models []string
}
