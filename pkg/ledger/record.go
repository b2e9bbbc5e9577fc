// Package ledger appends one immutable performance record per completed
// task to an external store, without ever blocking the task's caller.
package ledger

import (
	"context"
	"time"

	"github.com/parallax-systems/council/pkg/judge"
)

// Record is the durable outcome of one completed task. Records are
// append-only; nothing in this subsystem mutates or deletes them.
type Record struct {
	ID            string         `json:"id"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	TaskType      string         `json:"task_type"`
	Model         string         `json:"model"`
	Cost          float64        `json:"cost"`
	CandidateCost float64        `json:"candidate_cost"`
	JudgeCost     float64        `json:"judge_cost"`
	TotalCost     float64        `json:"total_cost"`
	LatencyMs     int64          `json:"latency_ms"`
	FallbackUsed  bool           `json:"fallback_used,omitempty"`
	Verdict       *judge.Verdict `json:"verdict,omitempty"`
	Failures      []string       `json:"failures,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// Store persists performance records.
type Store interface {
	Append(ctx context.Context, rec *Record) error
	Close() error
}
