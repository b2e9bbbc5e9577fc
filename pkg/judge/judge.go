// Package judge selects a winner among blinded candidate responses by
// asking a designated judge model for a structured verdict.
package judge

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/parallax-systems/council/pkg/adapter"
)

// Verdict is the outcome of one judging call. Scores are unitless and
// only meaningful for ranking within this single verdict.
type Verdict struct {
	WinnerIndex int       `json:"winner_index"`
	Scores      []float64 `json:"scores"`
	Rationale   string    `json:"rationale"`
	Fallback    bool      `json:"fallback"`
}

// Input carries everything one judging call needs. Candidates are the
// blinded texts in the order received; model identity never reaches the
// judge prompt.
type Input struct {
	JudgeModel string
	TaskType   string
	Prompt     string
	Criteria   []string
	Candidates []string
}

// InvalidJudgeInputError reports a judge invocation with fewer than two
// candidates. The coordinator's gating makes this unreachable in normal
// operation, so it fails loudly rather than degrading.
type InvalidJudgeInputError struct {
	Candidates int
}

func (e *InvalidJudgeInputError) Error() string {
	return fmt.Sprintf("judge requires at least 2 candidates, got %d", e.Candidates)
}

// Judge evaluates candidate sets using a judge model.
type Judge struct {
	registry *adapter.Registry
	timeout  time.Duration
	logger   *log.Logger
}

// Option configures a Judge.
type Option func(*Judge)

// WithTimeout bounds the judge model call.
func WithTimeout(d time.Duration) Option {
	return func(j *Judge) {
		j.timeout = d
	}
}

// WithLogger sets the operational logger.
func WithLogger(logger *log.Logger) Option {
	return func(j *Judge) {
		j.logger = logger
	}
}

// New creates a Judge over an adapter registry.
func New(registry *adapter.Registry, opts ...Option) *Judge {
	j := &Judge{
		registry: registry,
		timeout:  60 * time.Second,
		logger:   log.Default().WithPrefix("judge"),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Evaluate runs one judging call and returns the verdict plus the judge
// model's generation (for separate cost accounting). A failed or
// unparseable judge call never surfaces as an error: it degrades to a
// deterministic fallback verdict that records the failure in its
// rationale. The only error is InvalidJudgeInputError.
func (j *Judge) Evaluate(ctx context.Context, in Input) (*Verdict, *adapter.Generation, error) {
	if len(in.Candidates) < 2 {
		return nil, nil, &InvalidJudgeInputError{Candidates: len(in.Candidates)}
	}

	callCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	prompt := buildPrompt(in)
	gen, err := j.registry.Invoke(callCtx, in.JudgeModel, prompt, adapter.Params{})
	if err != nil {
		j.logger.Warn("judge call failed, using fallback verdict",
			"model", in.JudgeModel, "err", err)
		return fallbackVerdict(len(in.Candidates), fmt.Sprintf("judge call failed: %v", err)), nil, nil
	}

	verdict, err := parseVerdict(gen.Text, len(in.Candidates))
	if err != nil {
		j.logger.Warn("judge verdict unparseable, using fallback verdict",
			"model", in.JudgeModel, "err", err)
		return fallbackVerdict(len(in.Candidates), "parse failure"), gen, nil
	}

	return verdict, gen, nil
}

// fallbackVerdict is the deterministic tie-break: the first successful
// candidate wins, and the rationale records why judging degraded.
func fallbackVerdict(candidates int, reason string) *Verdict {
	return &Verdict{
		WinnerIndex: 0,
		Scores:      make([]float64, candidates),
		Rationale:   "fallback: " + reason,
		Fallback:    true,
	}
}
