// Package query provides the composite boolean query tree produced by the
// searchql compiler, plus fluent builders that turn a tree into RediSearch
// FT.SEARCH / FT.AGGREGATE commands.
//
//	import q "github.com/mgodwin/searchql/query"
//
//	root := q.NewBoolean().
//	    Add(q.Match("status", "PENDING"), q.OccurMust).
//	    Add(q.Match("priority", "high"), q.OccurShould)
package query

import (
	"strings"
)

// -------------------------------------------------------------------
// Expr – the root interface. Every node knows how to write itself
// into a strings.Builder. Compile logic lives in compile.go so nodes
// stay dumb data containers.
// -------------------------------------------------------------------

type Expr interface {
	compile(*strings.Builder)
}

// Field is a qualified field name. Qualifier is "*" when the field was not
// table-qualified.
type Field struct {
	Qualifier string
	Name      string
}

// AnyQualifier is the wildcard qualifier of an unqualified field.
const AnyQualifier = "*"

func (f Field) String() string {
	if f.Qualifier == "" || f.Qualifier == AnyQualifier {
		return f.Name
	}
	return f.Qualifier + "." + f.Name
}

// ------------
// Leaf nodes
// ------------

// Match is an exact field/value clause: "@field:{value}".
func Match(field string, v any) Expr { return &match{Field{Qualifier: AnyQualifier, Name: field}, v} }

// MatchField is Match with an explicit qualified field.
func MatchField(f Field, v any) Expr { return &match{f, v} }

// In matches any of the given values: "@field:{v1|v2}".
func In(field string, vs ...any) Expr { return &in{field, vs} }

// Range is a numeric range clause: "@price:[10 100]".
func Range(field string, min, max any, inclusive bool) Expr {
	return &rng{field, min, max, inclusive}
}

// MatchAll matches every document: "*".
func MatchAll() Expr { return matchAll{} }

// -------------------------------------------------------------------
// Boolean – the composite node. Children are paired with an Occur and
// bucketed per occurrence at compile time. A Boolean with zero children
// is a no-op query and compiles to "*".
// -------------------------------------------------------------------

// Child pairs a subtree with its occurrence.
type Child struct {
	Node  Expr
	Occur Occur
}

type Boolean struct {
	children []Child
}

// NewBoolean returns an empty composite.
func NewBoolean() *Boolean { return &Boolean{} }

// Add appends a child with the given occurrence and returns the receiver
// for chaining.
func (b *Boolean) Add(e Expr, o Occur) *Boolean {
	b.children = append(b.children, Child{Node: e, Occur: o})
	return b
}

// Merge attaches another tree under the given occurrence. Merging an empty
// Boolean is a no-op, so "WHERE"-less statements compose cleanly.
func (b *Boolean) Merge(e Expr, o Occur) *Boolean {
	if sub, ok := e.(*Boolean); ok && sub.Empty() {
		return b
	}
	return b.Add(e, o)
}

// Empty reports whether the composite has no children.
func (b *Boolean) Empty() bool { return len(b.children) == 0 }

// Len returns the number of direct children.
func (b *Boolean) Len() int { return len(b.children) }

// Children returns a copy of the child list in insertion order.
func (b *Boolean) Children() []Child {
	out := make([]Child, len(b.children))
	copy(out, b.children)
	return out
}

// Walk visits every node in the tree, depth-first, pre-order. The root is
// visited with OccurDefault.
func (b *Boolean) Walk(fn func(e Expr, o Occur)) {
	walk(b, OccurDefault, fn)
}

func walk(e Expr, o Occur, fn func(Expr, Occur)) {
	fn(e, o)
	if sub, ok := e.(*Boolean); ok {
		for _, c := range sub.children {
			walk(c.Node, c.Occur, fn)
		}
	}
}

// ------------
// Combinators
// ------------

// And builds a Boolean where every term must match.
func And(xs ...Expr) Expr {
	b := NewBoolean()
	for _, x := range xs {
		b.Add(x, OccurMust)
	}
	return b
}

// Or builds a Boolean where at least one term should match.
func Or(xs ...Expr) Expr {
	b := NewBoolean()
	for _, x := range xs {
		b.Add(x, OccurShould)
	}
	return b
}

// Not builds a Boolean where the term must not match.
func Not(x Expr) Expr {
	return NewBoolean().Add(x, OccurMustNot)
}

// -------------------------------------------------------------------
// internal node types
// -------------------------------------------------------------------

type (
	match struct {
		f Field
		v any
	}
	in struct {
		f  string
		vs []any
	}
	rng struct {
		f      string
		lo, hi any
		inc    bool
	}
	matchAll struct{}
)

// MatchedField exposes the field of a Match leaf; ok is false for any other
// node. The statement layer uses this for table cross-checks.
func MatchedField(e Expr) (Field, bool) {
	m, ok := e.(*match)
	if !ok {
		return Field{}, false
	}
	return m.f, true
}

// MatchedValue exposes the literal of a Match leaf.
func MatchedValue(e Expr) (any, bool) {
	m, ok := e.(*match)
	if !ok {
		return nil, false
	}
	return m.v, true
}

func fieldRef(f string) string {
	if strings.HasPrefix(f, "@") {
		return f
	}
	return "@" + f
}
