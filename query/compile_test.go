package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileLeaves(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"match", Match("status", "PENDING"), "@status:{PENDING}"},
		{"match numeric", Match("qty", 5), "@qty:{5}"},
		{"in", In("status", "PENDING", "SHIPPED"), "@status:{PENDING|SHIPPED}"},
		{"range inclusive", Range("qty", 1, 10, true), "@qty:[1 10]"},
		{"range exclusive", Range("qty", 1, 10, false), "@qty:(1 10)"},
		{"match all", MatchAll(), "*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compile(tt.expr))
		})
	}
}

func TestCompileBoolean(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"empty", NewBoolean(), "*"},
		{"single must",
			NewBoolean().Add(Match("a", 1), OccurMust),
			"(@a:{1})"},
		{"two musts",
			NewBoolean().Add(Match("a", 1), OccurMust).Add(Match("b", 2), OccurMust),
			"(@a:{1} @b:{2})"},
		{"single should",
			NewBoolean().Add(Match("a", 1), OccurShould),
			"(@a:{1})"},
		{"two shoulds group",
			NewBoolean().Add(Match("a", 1), OccurShould).Add(Match("b", 2), OccurShould),
			"((@a:{1}|@b:{2}))"},
		{"default resolves to should",
			NewBoolean().Add(Match("a", 1), OccurDefault).Add(Match("b", 2), OccurDefault),
			"((@a:{1}|@b:{2}))"},
		{"must not",
			NewBoolean().Add(Match("a", 1), OccurMustNot),
			"(-(@a:{1}))"},
		{"mixed buckets in engine order",
			NewBoolean().
				Add(Match("opt", "x"), OccurShould).
				Add(Match("req", "y"), OccurMust).
				Add(Match("ban", "z"), OccurMustNot),
			"(@req:{y} @opt:{x} -(@ban:{z}))"},
		{"nested composite",
			NewBoolean().
				Add(Match("a", 1), OccurShould).
				Add(NewBoolean().Add(Match("b", 2), OccurMust), OccurMust),
			"((@b:{2}) @a:{1})"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compile(tt.expr))
		})
	}
}

func TestCombinators(t *testing.T) {
	assert.Equal(t, "(@a:{1} @b:{2})", Compile(And(Match("a", 1), Match("b", 2))))
	assert.Equal(t, "((@a:{1}|@b:{2}))", Compile(Or(Match("a", 1), Match("b", 2))))
	assert.Equal(t, "(-(@a:{1}))", Compile(Not(Match("a", 1))))
}

func TestBooleanMerge(t *testing.T) {
	root := NewBoolean()
	root.Merge(NewBoolean(), OccurMust) // empty subtree is a no-op
	assert.True(t, root.Empty())

	root.Merge(Match("a", 1), OccurMust)
	assert.Equal(t, 1, root.Len())
}

func TestOccurInvert(t *testing.T) {
	assert.Equal(t, OccurMustNot, OccurMust.Invert())
	assert.Equal(t, OccurMust, OccurMustNot.Invert())
	assert.Equal(t, OccurShould, OccurShould.Invert())
	assert.Equal(t, OccurDefault, OccurDefault.Invert())
}

func TestWalkVisitsEverything(t *testing.T) {
	root := NewBoolean().
		Add(Match("a", 1), OccurMust).
		Add(NewBoolean().Add(Match("b", 2), OccurShould), OccurMustNot)

	var fields []string
	root.Walk(func(e Expr, _ Occur) {
		if f, ok := MatchedField(e); ok {
			fields = append(fields, f.Name)
		}
	})
	assert.Equal(t, []string{"a", "b"}, fields)
}
