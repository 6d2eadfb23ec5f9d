package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBuilderRawArgs(t *testing.T) {
	args, err := NewSearch("order_idx").
		Where(Match("status", "PENDING")).
		Select("order_id", "qty").
		SortBy("promise_ts", Desc).
		Limit(5, 20).
		RawArgs()
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		"FT.SEARCH", "order_idx", "@status:{PENDING}",
		"RETURN", "2", "order_id", "qty",
		"SORTBY", "promise_ts", "DESC",
		"LIMIT", "5", "20",
	}, args)
}

func TestSearchBuilderWhereDefaults(t *testing.T) {
	tests := []struct {
		name  string
		where Expr
	}{
		{"nil where", nil},
		{"match all", MatchAll()},
		{"empty composite", NewBoolean()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := NewSearch("idx").Where(tt.where).RawArgs()
			require.NoError(t, err)
			assert.Equal(t, "*", args[2])
		})
	}
}

func TestSearchBuilderRequiresExecutor(t *testing.T) {
	_, err := NewSearch("idx").Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executor not set")
}

func TestAggregateBuilderRawArgs(t *testing.T) {
	args, err := NewAggregate("order_idx").
		Where(MatchAll()).
		GroupBy(By("warehouse_id"), By("status")).
		Reduce("COUNT", "", "orders").
		Reduce("SUM", "qty", "total_qty").
		Limit(0, 150).
		RawArgs()
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		"FT.AGGREGATE", "order_idx", "*",
		"GROUPBY", "2", "@warehouse_id", "@status",
		"REDUCE", "COUNT", "0", "AS", "orders",
		"REDUCE", "SUM", "1", "@qty", "AS", "total_qty",
		"LIMIT", "0", "150",
	}, args)
}
