package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRoutingConfig(t *testing.T) {
	content := `
task_types:
  classification:
    mode: fixed
    model: cheap
    fallback: fast
  website_analysis:
    mode: tiered
    tiers:
      - threshold: 0
        model: cheap
      - threshold: 50000
        model: quality
  email_generation:
    mode: judged
    models: [quality, thinking]
    judge_model: premium
    criteria: [personalization, clarity]
pricing:
  deepseek/deepseek-chat: 1.1
  claude-sonnet-4-20250514: 15.0
aliases:
  cheap: deepseek/deepseek-chat
  quality: claude-sonnet-4-20250514
timeouts:
  call_seconds: 30
`
	path := filepath.Join(t.TempDir(), "routing.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRoutingConfig(path)
	if err != nil {
		t.Fatalf("LoadRoutingConfig() error = %v", err)
	}

	if len(cfg.TaskTypes) != 3 {
		t.Errorf("task types = %d, want 3", len(cfg.TaskTypes))
	}
	if cfg.TaskTypes["classification"].Mode != ModeFixed {
		t.Errorf("classification mode = %q, want fixed", cfg.TaskTypes["classification"].Mode)
	}
	if got := cfg.TaskTypes["website_analysis"].Tiers[1].Threshold; got != 50000 {
		t.Errorf("tier threshold = %v, want 50000", got)
	}
	if cfg.Timeouts.CallSeconds != 30 {
		t.Errorf("call timeout = %d, want 30", cfg.Timeouts.CallSeconds)
	}
	// Unset timeouts pick up defaults.
	if cfg.Timeouts.JudgeSeconds != 60 {
		t.Errorf("judge timeout = %d, want default 60", cfg.Timeouts.JudgeSeconds)
	}
}

func TestLoadRoutingConfig_MissingFile(t *testing.T) {
	if _, err := LoadRoutingConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRoutingConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routing.yaml")
	if err := os.WriteFile(path, []byte("task_types: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRoutingConfig(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestDefaultRoutingConfig(t *testing.T) {
	cfg := DefaultRoutingConfig()

	if len(cfg.TaskTypes) == 0 {
		t.Fatal("default config has no task types")
	}
	if cfg.Timeouts.CallSeconds == 0 || cfg.Timeouts.JudgeSeconds == 0 {
		t.Error("default config has zero timeouts")
	}

	// Every model a default rule references must have a pricing entry.
	for name, rule := range cfg.TaskTypes {
		for _, model := range ruleModels(rule) {
			if _, ok := cfg.Pricing[model]; !ok {
				t.Errorf("task %q references unpriced model %q", name, model)
			}
		}
	}
}

func ruleModels(rule TaskRule) []string {
	var models []string
	if rule.Model != "" {
		models = append(models, rule.Model)
	}
	if rule.Fallback != "" {
		models = append(models, rule.Fallback)
	}
	if rule.JudgeModel != "" {
		models = append(models, rule.JudgeModel)
	}
	models = append(models, rule.Models...)
	for _, tier := range rule.Tiers {
		models = append(models, tier.Model)
	}
	for _, tier := range rule.CouncilTiers {
		models = append(models, tier.Models...)
	}
	return models
}

func TestModelAliases_Resolve(t *testing.T) {
	aliases := NewModelAliases(map[string]string{
		"cheap":   "deepseek/deepseek-chat",
		"premium": "claude-opus-4-20250514",
	})

	tests := []struct {
		in   string
		want string
	}{
		{"cheap", "deepseek/deepseek-chat"},
		{"premium", "claude-opus-4-20250514"},
		{"claude-opus-4-20250514", "claude-opus-4-20250514"},
		{"unknown-model", "unknown-model"},
	}
	for _, tt := range tests {
		if got := aliases.Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if !aliases.IsAlias("cheap") {
		t.Error("IsAlias(cheap) = false, want true")
	}
	if aliases.IsAlias("deepseek/deepseek-chat") {
		t.Error("IsAlias(canonical) = true, want false")
	}
}

func TestModelAliases_ResolveAll(t *testing.T) {
	cfg := &RoutingConfig{
		TaskTypes: map[string]TaskRule{
			"classification": {Mode: ModeFixed, Model: "cheap", Fallback: "fast"},
			"website_analysis": {
				Mode: ModeTiered,
				Tiers: []ValueTier{
					{Threshold: 0, Model: "cheap"},
					{Threshold: 50000, Model: "quality"},
				},
			},
			"email_generation": {
				Mode:       ModeJudged,
				Models:     []string{"quality", "cheap"},
				JudgeModel: "premium",
				Criteria:   []string{"tone"},
				CouncilTiers: []CouncilTier{
					{Threshold: 0, Models: []string{"quality", "cheap"}},
				},
			},
		},
	}

	NewModelAliases(map[string]string{
		"cheap":   "deepseek/deepseek-chat",
		"fast":    "gemini-2.0-flash",
		"quality": "claude-sonnet-4-20250514",
		"premium": "claude-opus-4-20250514",
	}).ResolveAll(cfg)

	if got := cfg.TaskTypes["classification"].Model; got != "deepseek/deepseek-chat" {
		t.Errorf("fixed model = %q, not resolved", got)
	}
	if got := cfg.TaskTypes["classification"].Fallback; got != "gemini-2.0-flash" {
		t.Errorf("fallback = %q, not resolved", got)
	}
	if got := cfg.TaskTypes["website_analysis"].Tiers[1].Model; got != "claude-sonnet-4-20250514" {
		t.Errorf("tier model = %q, not resolved", got)
	}
	if got := cfg.TaskTypes["email_generation"].JudgeModel; got != "claude-opus-4-20250514" {
		t.Errorf("judge model = %q, not resolved", got)
	}
	if got := cfg.TaskTypes["email_generation"].CouncilTiers[0].Models[0]; got != "claude-sonnet-4-20250514" {
		t.Errorf("council tier model = %q, not resolved", got)
	}
}
