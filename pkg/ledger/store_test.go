package ledger

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallax-systems/council/pkg/judge"
)

func sampleRecord(id string) *Record {
	return &Record{
		ID:            id,
		CorrelationID: "lead-42",
		TaskType:      "email_generation",
		Model:         "claude-sonnet-4-20250514",
		Cost:          0.021,
		CandidateCost: 0.054,
		JudgeCost:     0.012,
		TotalCost:     0.066,
		LatencyMs:     1840,
		FallbackUsed:  false,
		Verdict: &judge.Verdict{
			WinnerIndex: 1,
			Scores:      []float64{18, 25},
			Rationale:   "second draft is more specific",
		},
		Failures:  []string{"gemini-2.5-pro: transport: connection reset"},
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestJSONLStore_AppendAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Append(context.Background(), sampleRecord("rec-1")))
	require.NoError(t, store.Append(context.Background(), sampleRecord("rec-2")))
	require.NoError(t, store.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, records, 2)
	assert.Equal(t, "rec-1", records[0].ID)
	assert.Equal(t, "lead-42", records[0].CorrelationID)
	require.NotNil(t, records[0].Verdict)
	assert.Equal(t, 1, records[0].Verdict.WinnerIndex)
	assert.InDelta(t, 0.066, records[1].TotalCost, 1e-9)
}

func TestJSONLStore_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "records.jsonl")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestJSONLStore_EmptyPath(t *testing.T) {
	_, err := NewJSONLStore("")
	assert.Error(t, err)
}

func TestSQLiteStore_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Append(context.Background(), sampleRecord("rec-1")))

	// A record without verdict or failures exercises the NULL columns.
	plain := sampleRecord("rec-2")
	plain.Verdict = nil
	plain.Failures = nil
	plain.FallbackUsed = true
	require.NoError(t, store.Append(context.Background(), plain))

	var count int
	require.NoError(t, store.db.QueryRow(
		`SELECT COUNT(*) FROM performance_records`).Scan(&count))
	assert.Equal(t, 2, count)

	var model, verdict string
	var fallback int
	require.NoError(t, store.db.QueryRow(
		`SELECT model, verdict, fallback_used FROM performance_records WHERE id = ?`,
		"rec-1").Scan(&model, &verdict, &fallback))
	assert.Equal(t, "claude-sonnet-4-20250514", model)
	assert.Contains(t, verdict, `"winner_index":1`)
	assert.Equal(t, 0, fallback)

	var nullVerdict any
	require.NoError(t, store.db.QueryRow(
		`SELECT verdict FROM performance_records WHERE id = ?`,
		"rec-2").Scan(&nullVerdict))
	assert.Nil(t, nullVerdict)

	require.NoError(t, store.Close())
}

func TestSQLiteStore_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), sampleRecord("rec-1")))
	require.NoError(t, store.Close())

	// Reopening an existing database must not disturb its rows.
	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	var count int
	require.NoError(t, store.db.QueryRow(
		`SELECT COUNT(*) FROM performance_records`).Scan(&count))
	assert.Equal(t, 1, count)
	require.NoError(t, store.Close())
}

func TestSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("")
	assert.Error(t, err)
}
