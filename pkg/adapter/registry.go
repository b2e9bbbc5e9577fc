package adapter

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Registry resolves model identifiers to the adapter that serves them.
// It is built once at startup and read-only afterwards.
type Registry struct {
	adapters map[string]Adapter
	byModel  map[string]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
		byModel:  make(map[string]Adapter),
	}
}

// Register adds an adapter and claims all of its models.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
	for _, model := range a.Models() {
		r.byModel[model] = a
	}
}

// RegisterModel claims a single model for an adapter, for models not in
// the adapter's built-in list (e.g. OpenRouter passthrough identifiers).
func (r *Registry) RegisterModel(model string, a Adapter) {
	r.adapters[a.Name()] = a
	r.byModel[model] = a
}

// Resolve returns the adapter serving a model identifier.
func (r *Registry) Resolve(model string) (Adapter, error) {
	a, ok := r.byModel[model]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for model %q", model)
	}
	return a, nil
}

// Knows reports whether a model identifier is resolvable.
func (r *Registry) Knows(model string) bool {
	_, ok := r.byModel[model]
	return ok
}

// Adapter returns a registered adapter by name.
func (r *Registry) Adapter(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Models returns all registered model identifiers, sorted.
func (r *Registry) Models() []string {
	models := make([]string, 0, len(r.byModel))
	for model := range r.byModel {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}

// Infos returns adapter metadata sorted by adapter name.
func (r *Registry) Infos() []Info {
	infos := make([]Info, 0, len(r.adapters))
	for _, a := range r.adapters {
		infos = append(infos, Info{Name: a.Name(), Models: a.Models()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Invoke resolves the model, calls its adapter, and normalizes the result:
// latency is measured here, token totals are filled in when the provider
// omits them, and failures come back as *ProviderError.
func (r *Registry) Invoke(ctx context.Context, model, prompt string, params Params) (*Generation, error) {
	a, err := r.Resolve(model)
	if err != nil {
		return nil, &ProviderError{Model: model, Kind: KindTransport, Err: err}
	}

	start := time.Now()
	gen, err := a.Generate(ctx, model, prompt, params)
	if err != nil {
		return nil, WrapError(model, err)
	}
	if gen == nil {
		return nil, &ProviderError{
			Model: model,
			Kind:  KindInvalidResponse,
			Err:   fmt.Errorf("adapter %s returned no generation", a.Name()),
		}
	}

	gen.Model = model
	gen.Latency = time.Since(start)
	if gen.Usage.TotalTokens == 0 {
		gen.Usage.TotalTokens = gen.Usage.PromptTokens + gen.Usage.CompletionTokens
	}
	return gen, nil
}
