package sqllang

import (
	"strings"

	"github.com/mgodwin/searchql/query"
)

// parseFragment turns one predicate fragment ("{field} {comparator}
// {value...}") into a leaf clause plus its occurrence. dflt is the occurrence
// the predicate gets when it carries no sigil of its own; a bare leading
// sigil or a sigil trailing the field token overrides it.
//
// Only equality comparators survive into the tree: "=" keeps the occurrence,
// "!=" / "<>" keeps the equality clause but inverts the occurrence
// (Must↔MustNot, Should unchanged). Ordering comparators reject.
func parseFragment(frag string, dflt query.Occur) (query.Expr, query.Occur, error) {
	words := strings.Fields(frag)

	// A bare leading sigil sets this predicate's occurrence.
	if len(words) > 0 {
		switch words[0] {
		case sigilMust:
			dflt, words = query.OccurMust, words[1:]
		case sigilShould:
			dflt, words = query.OccurShould, words[1:]
		case sigilMustNot:
			dflt, words = query.OccurMustNot, words[1:]
		}
	}

	if len(words) < 3 {
		return nil, query.OccurDefault, newParseError(0, ErrMalformedExpression,
			"predicate %q needs a field, a comparator and a value", frag)
	}

	fieldTok := words[0]
	occ := dflt
	switch {
	case strings.HasSuffix(fieldTok, sigilMust):
		occ, fieldTok = query.OccurMust, strings.TrimSuffix(fieldTok, sigilMust)
	case strings.HasSuffix(fieldTok, sigilShould):
		occ, fieldTok = query.OccurShould, strings.TrimSuffix(fieldTok, sigilShould)
	case strings.HasSuffix(fieldTok, sigilMustNot):
		occ, fieldTok = query.OccurMustNot, strings.TrimSuffix(fieldTok, sigilMustNot)
	}

	field, err := parseField(fieldTok)
	if err != nil {
		return nil, query.OccurDefault, err
	}

	value := strings.Join(words[2:], " ")
	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		value = value[1 : len(value)-1]
	}

	switch words[1] {
	case "=":
		return query.MatchField(field, value), occ, nil
	case "!=", "<>":
		return query.MatchField(field, value), occ.Invert(), nil
	case ">", ">=", "<", "<=":
		return nil, query.OccurDefault, newParseError(0, ErrUnsupportedOperator,
			"comparator %q is not supported", words[1])
	default:
		return nil, query.OccurDefault, newParseError(0, ErrMalformedExpression,
			"expected comparator, got %q", words[1])
	}
}

// parseField splits an optional "table." qualifier off a field token. An
// unqualified field gets the wildcard qualifier; more than one separator is
// rejected.
func parseField(tok string) (query.Field, error) {
	parts := strings.Split(tok, ".")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return query.Field{}, newParseError(0, ErrMalformedExpression, "empty field name")
		}
		return query.Field{Qualifier: query.AnyQualifier, Name: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return query.Field{}, newParseError(0, ErrMalformedExpression,
				"incomplete qualified field %q", tok)
		}
		return query.Field{Qualifier: parts[0], Name: parts[1]}, nil
	default:
		return query.Field{}, newParseError(0, ErrMalformedExpression,
			"field %q has more than one qualifier", tok)
	}
}

// buildTier compiles all fragments of a tier into one composite node,
// returning the node along with the tier's own occurrence for attachment to
// its enclosing tier. The group occurrence acts at that attachment only;
// members without a sigil of their own stay at the default occurrence, so a
// MustNot group negates once rather than negating every member again.
func buildTier(t tier) (*query.Boolean, query.Occur, error) {
	node := query.NewBoolean()
	for _, frag := range t.frags {
		clause, occ, err := parseFragment(frag, query.OccurDefault)
		if err != nil {
			return nil, query.OccurDefault, err
		}
		node.Add(clause, occ)
	}
	return node, t.occur, nil
}
