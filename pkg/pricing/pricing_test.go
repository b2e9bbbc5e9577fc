package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallax-systems/council/pkg/adapter"
)

func TestTable_Cost(t *testing.T) {
	table, err := NewTable(map[string]float64{
		"cheap-model":   1.0,
		"premium-model": 75.0,
		"free-model":    0,
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		model string
		usage adapter.Usage
		want  float64
	}{
		{
			name:  "uses total tokens",
			model: "cheap-model",
			usage: adapter.Usage{TotalTokens: 1_000_000},
			want:  1.0,
		},
		{
			name:  "sums prompt and completion when total missing",
			model: "premium-model",
			usage: adapter.Usage{PromptTokens: 300_000, CompletionTokens: 200_000},
			want:  37.5,
		},
		{
			name:  "zero usage costs nothing",
			model: "premium-model",
			usage: adapter.Usage{},
			want:  0,
		},
		{
			name:  "free model costs nothing",
			model: "free-model",
			usage: adapter.Usage{TotalTokens: 5_000_000},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := table.Cost(tt.model, tt.usage)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, cost, 1e-9)
			assert.GreaterOrEqual(t, cost, 0.0)
		})
	}
}

func TestTable_CostUnknownModel(t *testing.T) {
	table, err := NewTable(map[string]float64{"known": 1.0})
	require.NoError(t, err)

	_, err = table.Cost("unknown", adapter.Usage{TotalTokens: 100})
	assert.Error(t, err)
}

func TestNewTable_NegativePrice(t *testing.T) {
	_, err := NewTable(map[string]float64{"bad": -1.0})
	assert.Error(t, err)
}

func TestTable_Validate(t *testing.T) {
	table, err := NewTable(map[string]float64{"a": 1, "b": 2})
	require.NoError(t, err)

	assert.NoError(t, table.Validate([]string{"a", "b"}))
	assert.NoError(t, table.Validate(nil))

	err = table.Validate([]string{"a", "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestTable_Models(t *testing.T) {
	table, err := NewTable(map[string]float64{"z": 1, "a": 2, "m": 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "m", "z"}, table.Models())
}
