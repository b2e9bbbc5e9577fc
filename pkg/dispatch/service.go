// Package dispatch exposes the task-submission surface: route, execute,
// judge, record, and return the best available answer.
package dispatch

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/parallax-systems/council/pkg/adapter"
	"github.com/parallax-systems/council/pkg/council"
	"github.com/parallax-systems/council/pkg/judge"
	"github.com/parallax-systems/council/pkg/ledger"
	"github.com/parallax-systems/council/pkg/router"
)

// Request is one unit of work submitted by a caller.
type Request struct {
	TaskType string
	Prompt   string
	Context  router.Context

	// CorrelationID lets external systems join this task's performance
	// record with later business outcomes. Optional.
	CorrelationID string

	Params adapter.Params
}

// Response is the caller-facing result: the winning text and its
// metadata. Partial-failure detail stays in the performance record.
type Response struct {
	Text         string
	Model        string
	Cost         float64
	TotalCost    float64
	LatencyMs    int64
	Verdict      *judge.Verdict
	FallbackUsed bool
}

// Service wires the router, coordinator, and ledger into the submit
// operation. It holds no per-task state and is safe for concurrent use.
type Service struct {
	router      *router.Router
	coordinator *council.Coordinator
	ledger      *ledger.Logger
	logger      *log.Logger
}

// NewService assembles a Service from its collaborators.
func NewService(r *router.Router, c *council.Coordinator, l *ledger.Logger, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default().WithPrefix("dispatch")
	}
	return &Service{router: r, coordinator: c, ledger: l, logger: logger}
}

// Submit routes and executes one task, records the outcome, and returns
// the winning response. The ledger write never delays the return path.
func (s *Service) Submit(ctx context.Context, req Request) (*Response, error) {
	plan, err := s.router.Route(req.TaskType, req.Context)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("routed task",
		"task", req.TaskType, "models", plan.Models, "judged", plan.RequiresJudge)

	result, err := s.coordinator.Execute(ctx, plan, req.Prompt, req.Params)
	if err != nil {
		return nil, err
	}

	s.ledger.Log(s.record(req, result))

	return &Response{
		Text:         result.Winner.Text,
		Model:        result.Winner.Model,
		Cost:         result.Winner.Cost,
		TotalCost:    result.TotalCost,
		LatencyMs:    result.Winner.Latency.Milliseconds(),
		Verdict:      result.Verdict,
		FallbackUsed: result.FallbackUsed,
	}, nil
}

// Router returns the service's router, for listing commands.
func (s *Service) Router() *router.Router {
	return s.router
}

// Close drains and closes the ledger.
func (s *Service) Close() error {
	return s.ledger.Close()
}

func (s *Service) record(req Request, result *council.Result) *ledger.Record {
	var candidateCost float64
	for _, cand := range result.Candidates {
		candidateCost += cand.Cost
	}
	failures := make([]string, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, f.String())
	}

	return &ledger.Record{
		CorrelationID: req.CorrelationID,
		TaskType:      req.TaskType,
		Model:         result.Winner.Model,
		Cost:          result.Winner.Cost,
		CandidateCost: candidateCost,
		JudgeCost:     result.JudgeCost,
		TotalCost:     result.TotalCost,
		LatencyMs:     result.Winner.Latency.Milliseconds(),
		FallbackUsed:  result.FallbackUsed,
		Verdict:       result.Verdict,
		Failures:      failures,
	}
}
