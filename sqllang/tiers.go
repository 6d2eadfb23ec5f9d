package sqllang

import (
	"strings"

	"github.com/mgodwin/searchql/query"
)

// tier is one nesting level's worth of sibling predicate fragments, together
// with the occurrence sigil that preceded its opening parenthesis.
type tier struct {
	occur query.Occur
	frags []string
}

// splitTiers partitions the normalized symbolic string into tiers with a
// single left-to-right scan and a depth counter. A comma flushes the pending
// fragment into the current tier; an opening parenthesis starts a new tier,
// claiming the trailing occurrence sigil of the pending text; a closing
// parenthesis flushes and finalizes the deepest open tier. Tiers are emitted
// in close order, so the innermost group comes first and the outermost
// expression last. A flat expression yields exactly one tier.
//
// A backslash shields the next character from structural meaning, the same
// rule validateExpression applies; the escape sequence passes through into
// the fragment text. The input has already passed validateExpression, so
// unescaped parentheses balance.
func splitTiers(sym string) ([]tier, error) {
	open := []*tier{{}} // stack of open tiers, root first, deepest last
	var out []tier
	var buf strings.Builder

	flush := func() {
		frag := strings.TrimSpace(buf.String())
		buf.Reset()
		if frag == "" {
			return
		}
		cur := open[len(open)-1]
		cur.frags = append(cur.frags, frag)
	}

	escaped := false
	for i := 0; i < len(sym); i++ {
		c := sym[i]
		if escaped {
			buf.WriteByte(c)
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
			buf.WriteByte(c)
		case ',':
			flush()
		case '(':
			pending := strings.TrimRight(buf.String(), " ")
			occ := query.OccurDefault
			if n := len(pending); n > 0 {
				switch pending[n-1] {
				case '+':
					occ, pending = query.OccurMust, pending[:n-1]
				case '#':
					occ, pending = query.OccurShould, pending[:n-1]
				case '-':
					occ, pending = query.OccurMustNot, pending[:n-1]
				}
			}
			buf.Reset()
			buf.WriteString(pending)
			flush()
			open = append(open, &tier{occur: occ})
		case ')':
			flush()
			deepest := open[len(open)-1]
			open = open[:len(open)-1]
			if len(deepest.frags) == 0 {
				return nil, newParseError(i, ErrMalformedExpression, "empty group")
			}
			out = append(out, *deepest)
		default:
			buf.WriteByte(c)
		}
	}

	flush()
	// Only the root tier remains open; it closes at end of input.
	for len(open) > 0 {
		deepest := open[len(open)-1]
		open = open[:len(open)-1]
		out = append(out, *deepest)
	}

	return out, nil
}
