package council

import (
	"fmt"
	"strings"
	"time"

	"github.com/parallax-systems/council/pkg/adapter"
	"github.com/parallax-systems/council/pkg/judge"
)

// Candidate is one model's response to a plan's prompt, with its cost
// attributed even when the candidate is later discarded by the judge.
type Candidate struct {
	Model   string        `json:"model"`
	Text    string        `json:"text"`
	Usage   adapter.Usage `json:"usage"`
	Latency time.Duration `json:"latency"`
	Cost    float64       `json:"cost"`
}

// Failure records one adapter call that did not produce a candidate.
type Failure struct {
	Model string `json:"model"`
	Err   error  `json:"-"`
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %v", f.Model, f.Err)
}

// Result is the coordinator's output for one executed plan.
type Result struct {
	Winner       Candidate
	Verdict      *judge.Verdict
	Candidates   []Candidate
	Failures     []Failure
	JudgeUsage   adapter.Usage
	JudgeCost    float64
	TotalCost    float64
	FallbackUsed bool
}

// ExecutionFailedError reports a plan in which zero candidates
// succeeded. It carries every underlying provider error.
type ExecutionFailedError struct {
	TaskType string
	Failures []Failure
}

func (e *ExecutionFailedError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.String()
	}
	return fmt.Sprintf("execution failed for task %q: %s", e.TaskType, strings.Join(parts, "; "))
}

func (e *ExecutionFailedError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}
