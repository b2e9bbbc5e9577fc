// Package pricing holds the static model cost table used to attribute
// spend to every adapter call.
package pricing

import (
	"fmt"
	"sort"

	"github.com/parallax-systems/council/pkg/adapter"
)

// Table maps model identifiers to USD cost per million tokens.
// It is loaded once at startup and read-only afterwards.
type Table struct {
	perMillion map[string]float64
}

// NewTable builds a table from a model -> cost-per-million mapping.
// Negative prices are a configuration error.
func NewTable(perMillion map[string]float64) (*Table, error) {
	t := &Table{perMillion: make(map[string]float64, len(perMillion))}
	for model, price := range perMillion {
		if price < 0 {
			return nil, fmt.Errorf("pricing: model %q has negative cost %f", model, price)
		}
		t.perMillion[model] = price
	}
	return t, nil
}

// Has reports whether a model is priced.
func (t *Table) Has(model string) bool {
	_, ok := t.perMillion[model]
	return ok
}

// PerMillion returns the USD cost per million tokens for a model.
func (t *Table) PerMillion(model string) (float64, bool) {
	price, ok := t.perMillion[model]
	return price, ok
}

// Cost computes the USD cost of one generation's token usage.
func (t *Table) Cost(model string, usage adapter.Usage) (float64, error) {
	price, ok := t.perMillion[model]
	if !ok {
		return 0, fmt.Errorf("pricing: no entry for model %q", model)
	}
	total := usage.TotalTokens
	if total == 0 {
		total = usage.PromptTokens + usage.CompletionTokens
	}
	return float64(total) / 1_000_000 * price, nil
}

// Models returns all priced model identifiers, sorted.
func (t *Table) Models() []string {
	models := make([]string, 0, len(t.perMillion))
	for model := range t.perMillion {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}

// Validate checks that every referenced model has a pricing entry.
// A miss is a startup-fatal configuration error, never a per-request one.
func (t *Table) Validate(models []string) error {
	for _, model := range models {
		if !t.Has(model) {
			return fmt.Errorf("pricing: model %q referenced by routing rules has no pricing entry", model)
		}
	}
	return nil
}
