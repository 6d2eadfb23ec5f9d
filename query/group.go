package query

import "strings"

// GroupKey identifies a GROUPBY column (or expression) for AggregateBuilder.
type GroupKey struct {
	raw   string
	alias string
}

// By groups on a plain field; the "@" prefix is added when missing.
func By(field string) GroupKey {
	if !strings.HasPrefix(field, "@") {
		field = "@" + field
	}
	return GroupKey{raw: field}
}

// ByExpr groups on a raw APPLY-style expression, passed through untouched.
func ByExpr(expr string) GroupKey { return GroupKey{raw: expr} }

func (g GroupKey) As(alias string) GroupKey { g.alias = alias; return g }
