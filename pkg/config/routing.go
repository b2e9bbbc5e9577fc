package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule modes. Every task type resolves through exactly one of these.
const (
	ModeFixed  = "fixed"
	ModeTiered = "tiered"
	ModeJudged = "judged"
)

// RoutingConfig holds the declarative routing rules, pricing table,
// and call timeouts. Loaded once at startup; read-only afterwards.
type RoutingConfig struct {
	TaskTypes map[string]TaskRule `yaml:"task_types"`
	Pricing   map[string]float64  `yaml:"pricing"`
	Timeouts  TimeoutConfig       `yaml:"timeouts,omitempty"`
	Aliases   map[string]string   `yaml:"aliases,omitempty"`
}

// TaskRule is the YAML shape of one routing rule. Which fields apply
// depends on Mode; the router rejects malformed combinations at compile
// time, not per request.
type TaskRule struct {
	Mode string `yaml:"mode"`

	// Fixed mode.
	Model string `yaml:"model,omitempty"`

	// Tiered mode: ascending estimated-value thresholds.
	Tiers []ValueTier `yaml:"tiers,omitempty"`

	// Judged mode.
	Models       []string      `yaml:"models,omitempty"`
	JudgeModel   string        `yaml:"judge_model,omitempty"`
	Criteria     []string      `yaml:"criteria,omitempty"`
	CouncilTiers []CouncilTier `yaml:"council_tiers,omitempty"`

	// Optional single retry target when a single-model plan fails.
	Fallback string `yaml:"fallback,omitempty"`
}

// ValueTier maps an inclusive estimated-value threshold to a model.
type ValueTier struct {
	Threshold float64 `yaml:"threshold"`
	Model     string  `yaml:"model"`
}

// CouncilTier scales judged council membership by estimated value.
type CouncilTier struct {
	Threshold float64  `yaml:"threshold"`
	Models    []string `yaml:"models"`
}

// TimeoutConfig bounds individual provider calls.
type TimeoutConfig struct {
	CallSeconds  int `yaml:"call_seconds,omitempty"`
	JudgeSeconds int `yaml:"judge_seconds,omitempty"`
}

// LoadRoutingConfig reads routing configuration from a YAML file.
func LoadRoutingConfig(path string) (*RoutingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg RoutingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse routing config %s: %w", path, err)
	}

	applyRoutingDefaults(&cfg)
	return &cfg, nil
}

// DefaultRoutingConfig returns the built-in routing configuration.
func DefaultRoutingConfig() *RoutingConfig {
	cfg := &RoutingConfig{
		TaskTypes: map[string]TaskRule{
			"classification": {
				Mode:     ModeFixed,
				Model:    "deepseek/deepseek-chat",
				Fallback: "gpt-5.2-instant",
			},
			"lead_scoring": {
				Mode:     ModeFixed,
				Model:    "gemini-2.0-flash",
				Fallback: "deepseek/deepseek-chat",
			},
			"website_analysis": {
				Mode: ModeTiered,
				Tiers: []ValueTier{
					{Threshold: 0, Model: "deepseek/deepseek-chat"},
					{Threshold: 50_000, Model: "claude-sonnet-4-20250514"},
					{Threshold: 100_000, Model: "claude-opus-4-20250514"},
				},
				Fallback: "gemini-2.0-flash",
			},
			"enrichment_summary": {
				Mode: ModeTiered,
				Tiers: []ValueTier{
					{Threshold: 0, Model: "gemini-2.0-flash"},
					{Threshold: 75_000, Model: "gpt-5.2-thinking"},
				},
			},
			"email_generation": {
				Mode: ModeJudged,
				Models: []string{
					"claude-sonnet-4-20250514",
					"gpt-5.2-thinking",
					"deepseek/deepseek-chat",
				},
				JudgeModel: "claude-opus-4-20250514",
				Criteria:   []string{"personalization", "clarity", "tone"},
				CouncilTiers: []CouncilTier{
					{Threshold: 0, Models: []string{
						"claude-sonnet-4-20250514",
						"deepseek/deepseek-chat",
					}},
					{Threshold: 100_000, Models: []string{
						"claude-sonnet-4-20250514",
						"gpt-5.2-thinking",
						"deepseek/deepseek-chat",
					}},
				},
			},
			"subject_line": {
				Mode: ModeJudged,
				Models: []string{
					"gpt-5.2-instant",
					"deepseek/deepseek-chat",
				},
				JudgeModel: "claude-sonnet-4-20250514",
				Criteria:   []string{"relevance", "open_rate_appeal", "brevity"},
			},
		},
		Pricing: map[string]float64{
			"claude-opus-4-20250514":            75.0,
			"claude-sonnet-4-20250514":          15.0,
			"gpt-5.2-instant":                   2.0,
			"gpt-5.2-thinking":                  10.0,
			"gpt-5.2-pro":                       60.0,
			"gemini-2.0-pro":                    10.0,
			"gemini-2.0-flash":                  0.4,
			"deepseek/deepseek-chat":            1.1,
			"deepseek/deepseek-reasoner":        2.2,
			"meta-llama/llama-3.3-70b-instruct": 0.6,
		},
		Aliases: map[string]string{
			"cheap":    "deepseek/deepseek-chat",
			"fast":     "gemini-2.0-flash",
			"quality":  "claude-sonnet-4-20250514",
			"premium":  "claude-opus-4-20250514",
			"thinking": "gpt-5.2-thinking",
		},
	}

	applyRoutingDefaults(cfg)
	return cfg
}

func applyRoutingDefaults(cfg *RoutingConfig) {
	if cfg == nil {
		return
	}
	if cfg.Timeouts.CallSeconds == 0 {
		cfg.Timeouts.CallSeconds = 45
	}
	if cfg.Timeouts.JudgeSeconds == 0 {
		cfg.Timeouts.JudgeSeconds = 60
	}
}
