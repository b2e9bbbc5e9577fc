package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/parallax-systems/council/pkg/adapter"
	"github.com/parallax-systems/council/pkg/config"
	"github.com/parallax-systems/council/pkg/council"
	"github.com/parallax-systems/council/pkg/judge"
	"github.com/parallax-systems/council/pkg/ledger"
	"github.com/parallax-systems/council/pkg/pricing"
	"github.com/parallax-systems/council/pkg/router"
)

// Build assembles a fully validated Service from configuration: rules
// are compiled, every referenced model must be priced and resolvable by
// a registered adapter, and the ledger store is opened. Any failure
// here is startup-fatal by design.
func Build(cfg *config.Config) (*Service, error) {
	rules, err := router.Compile(cfg.Routing)
	if err != nil {
		return nil, fmt.Errorf("invalid routing config: %w", err)
	}

	registry, err := buildRegistry(cfg, rules.ReferencedModels())
	if err != nil {
		return nil, err
	}

	table, err := pricing.NewTable(cfg.Routing.Pricing)
	if err != nil {
		return nil, err
	}
	if err := table.Validate(rules.ReferencedModels()); err != nil {
		return nil, err
	}

	store, err := openStore(cfg.Ledger)
	if err != nil {
		return nil, err
	}

	j := judge.New(registry,
		judge.WithTimeout(time.Duration(cfg.Routing.Timeouts.JudgeSeconds)*time.Second))
	coordinator := council.New(registry, table, j,
		council.WithCallTimeout(time.Duration(cfg.Routing.Timeouts.CallSeconds)*time.Second))
	recorder := ledger.NewLogger(store, ledger.WithQueueSize(cfg.Ledger.QueueSize))

	return NewService(router.New(rules), coordinator, recorder, nil), nil
}

// buildRegistry registers an adapter for every configured API key and
// verifies that each model the routing rules can select is resolvable.
func buildRegistry(cfg *config.Config, referenced []string) (*adapter.Registry, error) {
	registry := adapter.NewRegistry()

	var openRouter *adapter.OpenRouterAdapter
	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		registry.Register(a)
	}
	if cfg.OpenAIAPIKey != "" {
		a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, err
		}
		registry.Register(a)
	}
	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		registry.Register(a)
	}
	if cfg.OpenRouterAPIKey != "" {
		a, err := adapter.NewOpenRouterAdapter(cfg.OpenRouterAPIKey)
		if err != nil {
			return nil, err
		}
		registry.Register(a)
		openRouter = a
	}

	var missing []string
	for _, model := range referenced {
		if registry.Knows(model) {
			continue
		}
		// Namespaced identifiers ("provider/model") pass through
		// OpenRouter when it is configured.
		if openRouter != nil && strings.Contains(model, "/") {
			registry.RegisterModel(model, openRouter)
			continue
		}
		missing = append(missing, model)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no adapter available for configured models %v (check API keys)", missing)
	}
	return registry, nil
}

func openStore(cfg config.LedgerConfig) (ledger.Store, error) {
	switch cfg.Driver {
	case "jsonl":
		return ledger.NewJSONLStore(cfg.Path)
	case "", "sqlite":
		return ledger.NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", cfg.Driver)
	}
}
