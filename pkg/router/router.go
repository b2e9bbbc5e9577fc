// Package router turns (task type, routing context) pairs into execution
// plans using declarative routing rules.
package router

import (
	"fmt"
	"sort"
)

// Context is the key-value bag a caller supplies with each routing
// request. Fields not referenced by a rule are ignored.
type Context struct {
	// EstimatedValue drives tiered model selection; zero or absent
	// values always land on the lowest tier.
	EstimatedValue float64

	// Fields carries arbitrary caller metadata. The router does not
	// consult it; it rides along for logging and correlation.
	Fields map[string]string
}

// Plan is the router's output: the models to invoke and whether a judge
// selects among them. RequiresJudge is true iff len(Models) >= 2.
type Plan struct {
	TaskType      string
	Models        []string
	RequiresJudge bool
	JudgeModel    string
	Criteria      []string
	Fallback      string
}

// UnknownTaskTypeError reports a task type with no configured rule.
// It is a caller error and is never retried.
type UnknownTaskTypeError struct {
	TaskType string
	Known    []string
}

func (e *UnknownTaskTypeError) Error() string {
	return fmt.Sprintf("unknown task type %q (known: %v)", e.TaskType, e.Known)
}

// Router resolves task types to execution plans. Routing is a pure
// function of its inputs and the compiled rule set, so identical calls
// yield identical plans for the process lifetime.
type Router struct {
	rules *RuleSet
}

// New creates a router over a compiled rule set.
func New(rules *RuleSet) *Router {
	return &Router{rules: rules}
}

// Route produces the execution plan for a task type and context.
func (r *Router) Route(taskType string, rctx Context) (*Plan, error) {
	rule, ok := r.rules.rules[taskType]
	if !ok {
		return nil, &UnknownTaskTypeError{TaskType: taskType, Known: r.rules.TaskTypes()}
	}
	return rule.plan(taskType, rctx), nil
}

// RuleSet returns the router's compiled rules.
func (r *Router) RuleSet() *RuleSet {
	return r.rules
}

// RouteInfo describes one routing rule for listing commands.
type RouteInfo struct {
	TaskType   string
	Mode       string
	Models     []string
	JudgeModel string
	Fallback   string
}

// Routes returns a description of every configured rule, sorted by task
// type. Listings resolve against an empty context, so tiered and
// council-tiered rules show their lowest tier.
func (r *Router) Routes() []RouteInfo {
	infos := make([]RouteInfo, 0, len(r.rules.rules))
	for name, rule := range r.rules.rules {
		p := rule.plan(name, Context{})
		infos = append(infos, RouteInfo{
			TaskType:   name,
			Mode:       rule.mode(),
			Models:     p.Models,
			JudgeModel: p.JudgeModel,
			Fallback:   p.Fallback,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].TaskType < infos[j].TaskType })
	return infos
}
