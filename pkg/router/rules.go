package router

import (
	"fmt"
	"sort"

	"github.com/parallax-systems/council/pkg/config"
)

// Rule is the compiled form of one task type's routing rule. The three
// variants (fixed, tiered, judged) replace per-task branch chains with a
// single generic routing function.
type Rule interface {
	// plan resolves the rule against a routing context.
	plan(taskType string, rctx Context) *Plan

	// referencedModels returns every model the rule can select,
	// including judge and fallback models, for startup validation.
	referencedModels() []string

	// mode returns the rule's declarative mode name.
	mode() string
}

type fixedRule struct {
	model    string
	fallback string
}

func (r fixedRule) mode() string { return config.ModeFixed }

func (r fixedRule) plan(taskType string, _ Context) *Plan {
	return &Plan{
		TaskType: taskType,
		Models:   []string{r.model},
		Fallback: r.fallback,
	}
}

func (r fixedRule) referencedModels() []string {
	models := []string{r.model}
	if r.fallback != "" {
		models = append(models, r.fallback)
	}
	return models
}

type tieredRule struct {
	tiers    []config.ValueTier // ascending by threshold
	fallback string
}

func (r tieredRule) mode() string { return config.ModeTiered }

func (r tieredRule) plan(taskType string, rctx Context) *Plan {
	// Highest tier whose threshold the value meets or exceeds wins;
	// absent or zero values land on the lowest tier.
	model := r.tiers[0].Model
	for _, tier := range r.tiers {
		if rctx.EstimatedValue >= tier.Threshold {
			model = tier.Model
		}
	}
	return &Plan{
		TaskType: taskType,
		Models:   []string{model},
		Fallback: r.fallback,
	}
}

func (r tieredRule) referencedModels() []string {
	var models []string
	for _, tier := range r.tiers {
		models = append(models, tier.Model)
	}
	if r.fallback != "" {
		models = append(models, r.fallback)
	}
	return models
}

type judgedRule struct {
	models       []string
	judgeModel   string
	criteria     []string
	councilTiers []config.CouncilTier // ascending by threshold; optional
}

func (r judgedRule) mode() string { return config.ModeJudged }

func (r judgedRule) plan(taskType string, rctx Context) *Plan {
	models := r.models
	if len(r.councilTiers) > 0 {
		models = r.councilTiers[0].Models
		for _, tier := range r.councilTiers {
			if rctx.EstimatedValue >= tier.Threshold {
				models = tier.Models
			}
		}
	}
	return &Plan{
		TaskType:      taskType,
		Models:        append([]string(nil), models...),
		RequiresJudge: true,
		JudgeModel:    r.judgeModel,
		Criteria:      r.criteria,
	}
}

func (r judgedRule) referencedModels() []string {
	models := append([]string(nil), r.models...)
	for _, tier := range r.councilTiers {
		models = append(models, tier.Models...)
	}
	models = append(models, r.judgeModel)
	return models
}

// RuleSet holds the compiled routing rules for all task types.
type RuleSet struct {
	rules map[string]Rule
}

// Compile validates a routing configuration and builds the rule set.
// All shape errors here are startup-fatal, never per-request.
func Compile(cfg *config.RoutingConfig) (*RuleSet, error) {
	if cfg == nil || len(cfg.TaskTypes) == 0 {
		return nil, fmt.Errorf("routing config defines no task types")
	}

	rules := make(map[string]Rule, len(cfg.TaskTypes))
	for name, spec := range cfg.TaskTypes {
		rule, err := compileRule(spec)
		if err != nil {
			return nil, fmt.Errorf("task type %q: %w", name, err)
		}
		rules[name] = rule
	}
	return &RuleSet{rules: rules}, nil
}

func compileRule(spec config.TaskRule) (Rule, error) {
	switch spec.Mode {
	case config.ModeFixed:
		if spec.Model == "" {
			return nil, fmt.Errorf("fixed rule requires a model")
		}
		return fixedRule{model: spec.Model, fallback: spec.Fallback}, nil

	case config.ModeTiered:
		if len(spec.Tiers) == 0 {
			return nil, fmt.Errorf("tiered rule requires at least one tier")
		}
		tiers := append([]config.ValueTier(nil), spec.Tiers...)
		sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].Threshold < tiers[j].Threshold })
		for i, tier := range tiers {
			if tier.Model == "" {
				return nil, fmt.Errorf("tier %d has no model", i)
			}
			if i > 0 && tier.Threshold == tiers[i-1].Threshold {
				return nil, fmt.Errorf("duplicate tier threshold %v", tier.Threshold)
			}
		}
		return tieredRule{tiers: tiers, fallback: spec.Fallback}, nil

	case config.ModeJudged:
		if err := validateCouncil(spec.Models); err != nil {
			return nil, err
		}
		if spec.JudgeModel == "" {
			return nil, fmt.Errorf("judged rule requires a judge_model")
		}
		if len(spec.Criteria) == 0 {
			return nil, fmt.Errorf("judged rule requires evaluation criteria")
		}
		councilTiers := append([]config.CouncilTier(nil), spec.CouncilTiers...)
		sort.SliceStable(councilTiers, func(i, j int) bool {
			return councilTiers[i].Threshold < councilTiers[j].Threshold
		})
		for i, tier := range councilTiers {
			if err := validateCouncil(tier.Models); err != nil {
				return nil, fmt.Errorf("council tier %d: %w", i, err)
			}
		}
		return judgedRule{
			models:       spec.Models,
			judgeModel:   spec.JudgeModel,
			criteria:     spec.Criteria,
			councilTiers: councilTiers,
		}, nil

	case "":
		return nil, fmt.Errorf("rule has no mode")
	default:
		return nil, fmt.Errorf("unknown rule mode %q", spec.Mode)
	}
}

func validateCouncil(models []string) error {
	if len(models) < 2 || len(models) > 3 {
		return fmt.Errorf("judged council needs 2-3 models, got %d", len(models))
	}
	seen := make(map[string]bool, len(models))
	for _, model := range models {
		if model == "" {
			return fmt.Errorf("judged council has an empty model entry")
		}
		if seen[model] {
			return fmt.Errorf("judged council lists model %q twice", model)
		}
		seen[model] = true
	}
	return nil
}

// ReferencedModels returns every model any rule can select, deduplicated
// and sorted. Used to validate pricing and adapter coverage at startup.
func (rs *RuleSet) ReferencedModels() []string {
	seen := make(map[string]bool)
	for _, rule := range rs.rules {
		for _, model := range rule.referencedModels() {
			seen[model] = true
		}
	}
	models := make([]string, 0, len(seen))
	for model := range seen {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}

// TaskTypes returns the configured task type names, sorted.
func (rs *RuleSet) TaskTypes() []string {
	names := make([]string, 0, len(rs.rules))
	for name := range rs.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
