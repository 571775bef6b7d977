package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter_Variants(t *testing.T) {
	f, err := ParseFilter(map[string]any{
		"status__ne":       "CLOSED",
		"kind__ne":         []string{"A", "B"},
		"transaction_type": []any{"DEBIT", "CREDIT"},
		"amount":           10,
	})
	require.NoError(t, err)

	assert.Equal(t, Filter{
		Eq("amount", 10),
		NotIn("kind", "A", "B"),
		Ne("status", "CLOSED"),
		In("transaction_type", "DEBIT", "CREDIT"),
	}, f)
}

func TestParseFilter_Rejects(t *testing.T) {
	tests := map[string]map[string]any{
		"empty field":  {"": "x"},
		"only suffix":  {"__ne": "x"},
		"empty list":   {"status": []string{}},
		"nested map":   {"status": map[string]any{"a": 1}},
		"nil value":    {"status": nil},
		"nested slice": {"status": []any{[]int{1}}},
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFilter(raw)
			assert.ErrorIs(t, err, ErrInvalidFilter)
		})
	}
}

func TestFilter_NegationExcludesMatchingRows(t *testing.T) {
	rows := []map[string]any{
		{"status": "OPEN"},
		{"status": "CLOSED"},
		{"status": "ARCHIVED"},
	}

	single, err := ParseFilter(map[string]any{"status__ne": "CLOSED"})
	require.NoError(t, err)
	multi, err := ParseFilter(map[string]any{"status__ne": []string{"CLOSED", "ARCHIVED"}})
	require.NoError(t, err)

	var kept []string
	for _, r := range rows {
		if single.Matches(r) {
			kept = append(kept, r["status"].(string))
		}
	}
	assert.Equal(t, []string{"OPEN", "ARCHIVED"}, kept)

	kept = nil
	for _, r := range rows {
		if multi.Matches(r) {
			kept = append(kept, r["status"].(string))
		}
	}
	assert.Equal(t, []string{"OPEN"}, kept)
}

func TestFilter_Conjunction(t *testing.T) {
	f := Filter{Eq("type", "DEBIT")}.And(Ne("description", "rent"))

	assert.True(t, f.Matches(map[string]any{"type": "DEBIT", "description": "food"}))
	assert.False(t, f.Matches(map[string]any{"type": "DEBIT", "description": "rent"}))
	assert.False(t, f.Matches(map[string]any{"type": "CREDIT", "description": "food"}))
	assert.Equal(t, []string{"type", "description"}, f.Fields())
}
