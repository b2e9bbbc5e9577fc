package adapter

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockAdapter returns scripted responses for local runs and tests.
// Responses, failures, and delays are keyed by model so a single mock
// can stand in for an entire council.
type MockAdapter struct {
	name   string
	models []string

	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	delays    map[string]time.Duration
	usage     map[string]Usage
	calls     []string
}

// NewMockAdapter creates a mock adapter claiming the given models.
func NewMockAdapter(name string, models ...string) *MockAdapter {
	if name == "" {
		name = "mock"
	}
	if len(models) == 0 {
		models = []string{"mock-1"}
	}
	return &MockAdapter{
		name:      name,
		models:    models,
		responses: make(map[string]string),
		errs:      make(map[string]error),
		delays:    make(map[string]time.Duration),
		usage:     make(map[string]Usage),
	}
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return a.name
}

// Models returns the list of claimed models.
func (a *MockAdapter) Models() []string {
	return a.models
}

// SetResponse scripts the text returned for a model.
func (a *MockAdapter) SetResponse(model, text string) *MockAdapter {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[model] = text
	return a
}

// SetError scripts a failure for a model.
func (a *MockAdapter) SetError(model string, err error) *MockAdapter {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs[model] = err
	return a
}

// SetDelay adds artificial latency before a model responds.
func (a *MockAdapter) SetDelay(model string, d time.Duration) *MockAdapter {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delays[model] = d
	return a
}

// SetUsage scripts the token usage reported for a model.
func (a *MockAdapter) SetUsage(model string, u Usage) *MockAdapter {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.usage[model] = u
	return a
}

// Calls returns the models invoked so far, in invocation order.
func (a *MockAdapter) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	calls := make([]string, len(a.calls))
	copy(calls, a.calls)
	return calls
}

// Generate returns the scripted result for the model, honoring delays
// and context cancellation.
func (a *MockAdapter) Generate(ctx context.Context, model string, prompt string, params Params) (*Generation, error) {
	a.mu.Lock()
	a.calls = append(a.calls, model)
	delay := a.delays[model]
	scriptedErr := a.errs[model]
	text, hasText := a.responses[model]
	usage := a.usage[model]
	a.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if scriptedErr != nil {
		return nil, scriptedErr
	}
	if !hasText {
		text = fmt.Sprintf("mock response:\n%s", prompt)
	}
	return &Generation{Text: text, Usage: usage}, nil
}
