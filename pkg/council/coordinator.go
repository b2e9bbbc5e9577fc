// Package council executes routing plans: single calls with fallback
// for fixed plans, concurrent fan-out with judged selection for
// multi-model plans.
package council

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/parallax-systems/council/pkg/adapter"
	"github.com/parallax-systems/council/pkg/judge"
	"github.com/parallax-systems/council/pkg/pricing"
	"github.com/parallax-systems/council/pkg/router"
)

// Coordinator executes plans against the adapter registry. Each
// execution owns its own state; a Coordinator is safe for unbounded
// concurrent use.
type Coordinator struct {
	registry    *adapter.Registry
	pricing     *pricing.Table
	judge       *judge.Judge
	callTimeout time.Duration
	logger      *log.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithCallTimeout bounds each individual provider call.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.callTimeout = d
	}
}

// WithLogger sets the operational logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// New creates a Coordinator.
func New(registry *adapter.Registry, table *pricing.Table, j *judge.Judge, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry:    registry,
		pricing:     table,
		judge:       j,
		callTimeout: 45 * time.Second,
		logger:      log.Default().WithPrefix("council"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs a plan to completion and returns the winning candidate,
// the judge verdict for multi-model plans, and any partial failures.
func (c *Coordinator) Execute(ctx context.Context, plan *router.Plan, prompt string, params adapter.Params) (*Result, error) {
	if len(plan.Models) == 1 && !plan.RequiresJudge {
		return c.executeSingle(ctx, plan, prompt, params)
	}
	return c.executeCouncil(ctx, plan, prompt, params)
}

// executeSingle invokes the plan's one model, retrying once against the
// configured fallback model on failure.
func (c *Coordinator) executeSingle(ctx context.Context, plan *router.Plan, prompt string, params adapter.Params) (*Result, error) {
	model := plan.Models[0]
	var failures []Failure

	gen, err := c.invoke(ctx, model, prompt, params)
	fallbackUsed := false
	if err != nil {
		failures = append(failures, Failure{Model: model, Err: err})
		if plan.Fallback == "" {
			return nil, &ExecutionFailedError{TaskType: plan.TaskType, Failures: failures}
		}
		c.logger.Warn("primary model failed, trying fallback",
			"task", plan.TaskType, "model", model, "fallback", plan.Fallback, "err", err)
		gen, err = c.invoke(ctx, plan.Fallback, prompt, params)
		if err != nil {
			failures = append(failures, Failure{Model: plan.Fallback, Err: err})
			return nil, &ExecutionFailedError{TaskType: plan.TaskType, Failures: failures}
		}
		fallbackUsed = true
	}

	winner := c.candidate(gen)
	return &Result{
		Winner:       winner,
		Candidates:   []Candidate{winner},
		Failures:     failures,
		TotalCost:    winner.Cost,
		FallbackUsed: fallbackUsed,
	}, nil
}

// executeCouncil fans out to every model in the plan concurrently and
// waits for all calls to settle before judging. Quality is the goal, so
// there is no early return on first success.
func (c *Coordinator) executeCouncil(ctx context.Context, plan *router.Plan, prompt string, params adapter.Params) (*Result, error) {
	type slot struct {
		gen *adapter.Generation
		err error
	}
	slots := make([]slot, len(plan.Models))

	var g errgroup.Group
	for i, model := range plan.Models {
		g.Go(func() error {
			gen, err := c.invoke(ctx, model, prompt, params)
			slots[i] = slot{gen: gen, err: err}
			return nil
		})
	}
	// Fan-in barrier: every sibling call settles before we proceed.
	_ = g.Wait()

	var candidates []Candidate
	var failures []Failure
	for i, s := range slots {
		if s.err != nil {
			failures = append(failures, Failure{Model: plan.Models[i], Err: s.err})
			continue
		}
		candidates = append(candidates, c.candidate(s.gen))
	}

	switch len(candidates) {
	case 0:
		return nil, &ExecutionFailedError{TaskType: plan.TaskType, Failures: failures}
	case 1:
		// Judging a single candidate is meaningless.
		c.logger.Debug("single surviving candidate, skipping judge",
			"task", plan.TaskType, "model", candidates[0].Model)
		return &Result{
			Winner:     candidates[0],
			Candidates: candidates,
			Failures:   failures,
			TotalCost:  candidates[0].Cost,
		}, nil
	}

	texts := make([]string, len(candidates))
	for i, cand := range candidates {
		texts[i] = cand.Text
	}
	verdict, judgeGen, err := c.judge.Evaluate(ctx, judge.Input{
		JudgeModel: plan.JudgeModel,
		TaskType:   plan.TaskType,
		Prompt:     prompt,
		Criteria:   plan.Criteria,
		Candidates: texts,
	})
	if err != nil {
		// Only InvalidJudgeInput reaches here; with the gating above it
		// indicates a coordinator bug, so fail loudly.
		return nil, err
	}

	result := &Result{
		Winner:     candidates[verdict.WinnerIndex],
		Verdict:    verdict,
		Candidates: candidates,
		Failures:   failures,
	}
	for _, cand := range candidates {
		result.TotalCost += cand.Cost
	}
	if judgeGen != nil {
		result.JudgeUsage = judgeGen.Usage
		result.JudgeCost = c.cost(judgeGen)
		result.TotalCost += result.JudgeCost
	}
	return result, nil
}

func (c *Coordinator) invoke(ctx context.Context, model, prompt string, params adapter.Params) (*adapter.Generation, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return c.registry.Invoke(callCtx, model, prompt, params)
}

func (c *Coordinator) candidate(gen *adapter.Generation) Candidate {
	return Candidate{
		Model:   gen.Model,
		Text:    gen.Text,
		Usage:   gen.Usage,
		Latency: gen.Latency,
		Cost:    c.cost(gen),
	}
}

func (c *Coordinator) cost(gen *adapter.Generation) float64 {
	cost, err := c.pricing.Cost(gen.Model, gen.Usage)
	if err != nil {
		// Startup validation makes this unreachable for configured
		// models; surface it operationally rather than failing the task.
		c.logger.Warn("cost lookup failed", "model", gen.Model, "err", err)
		return 0
	}
	return cost
}
