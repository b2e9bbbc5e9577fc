package config

import "sort"

// ModelAliases resolves short model names ("cheap", "premium") to
// canonical model identifiers. Resolution happens once, before routing
// rules are compiled, so the rest of the system only ever sees
// canonical identifiers.
type ModelAliases struct {
	aliases map[string]string
}

// NewModelAliases builds an alias resolver from an alias -> canonical map.
func NewModelAliases(aliases map[string]string) *ModelAliases {
	m := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		m[alias] = canonical
	}
	return &ModelAliases{aliases: m}
}

// Resolve returns the canonical model name for an alias.
// If the input is not an alias, it returns the input unchanged.
func (a *ModelAliases) Resolve(modelOrAlias string) string {
	if a == nil || a.aliases == nil {
		return modelOrAlias
	}
	if canonical, ok := a.aliases[modelOrAlias]; ok {
		return canonical
	}
	return modelOrAlias
}

// IsAlias reports whether the given string is a known alias.
func (a *ModelAliases) IsAlias(name string) bool {
	if a == nil {
		return false
	}
	_, ok := a.aliases[name]
	return ok
}

// List returns alias names, sorted.
func (a *ModelAliases) List() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.aliases))
	for name := range a.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveAll rewrites every model reference in a routing config to its
// canonical form, in place. Called once at load time.
func (a *ModelAliases) ResolveAll(cfg *RoutingConfig) {
	if a == nil || cfg == nil {
		return
	}
	for name, rule := range cfg.TaskTypes {
		rule.Model = a.Resolve(rule.Model)
		rule.JudgeModel = a.Resolve(rule.JudgeModel)
		rule.Fallback = a.Resolve(rule.Fallback)
		for i := range rule.Tiers {
			rule.Tiers[i].Model = a.Resolve(rule.Tiers[i].Model)
		}
		for i := range rule.Models {
			rule.Models[i] = a.Resolve(rule.Models[i])
		}
		for i := range rule.CouncilTiers {
			for j := range rule.CouncilTiers[i].Models {
				rule.CouncilTiers[i].Models[j] = a.Resolve(rule.CouncilTiers[i].Models[j])
			}
		}
		cfg.TaskTypes[name] = rule
	}
}
