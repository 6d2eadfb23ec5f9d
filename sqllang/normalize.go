package sqllang

import (
	"strings"
)

// Occurrence sigils of the symbolic intermediate form.
const (
	sigilMust    = "+"
	sigilShould  = "#"
	sigilMustNot = "-"
)

// normalize rewrites the clause's keyword vocabulary into the compact
// symbolic intermediate form consumed by the tier splitter. Matching is
// case-insensitive; any word outside the fixed vocabulary passes through
// unchanged. Occurrence keywords that follow a term (Must, Should, MustNot)
// attach their sigil backward to the previously emitted token; the
// parenthesized forms (Must(..., Should(..., MustNot(...) emit the sigil in
// front of the remainder instead.
func normalize(expr string) string {
	words := strings.Fields(expr)
	out := make([]string, 0, len(words))

	// One-token lookback: occurrence keywords modify the last emitted word.
	attach := func(sigil string) {
		if len(out) == 0 {
			out = append(out, sigil)
			return
		}
		out[len(out)-1] += sigil
	}

	for _, w := range words {
		lower := strings.ToLower(w)
		switch lower {
		case "equals", "equal":
			out = append(out, "=")
		case "greaterthan":
			out = append(out, ">")
		case "greaterorequal":
			out = append(out, ">=")
		case "lessthan":
			out = append(out, "<")
		case "lessorequal":
			out = append(out, "<=")
		case "notequal", "<>":
			out = append(out, "!=")
		case "and":
			out = append(out, sigilMust)
		case "or":
			out = append(out, sigilShould)
		case "not":
			out = append(out, sigilMustNot)
		case "must", "mustbe":
			attach(sigilMust)
		case "should", "shouldbe":
			attach(sigilShould)
		case "mustnot", "mustnotbe":
			attach(sigilMustNot)
		default:
			if sigil, rest, ok := groupPrefix(w, lower); ok {
				out = append(out, sigil+rest)
				continue
			}
			out = append(out, w)
		}
	}

	return strings.Join(out, " ")
}

// groupPrefix detects the parenthesized occurrence forms, e.g.
// "Must(LastName" yields ("+", "(LastName", true). Longer keywords are
// checked first so "MustNot(" is not read as "Must" + "Not(".
func groupPrefix(w, lower string) (sigil, rest string, ok bool) {
	prefixes := []struct {
		kw    string
		sigil string
	}{
		{"mustnotbe(", sigilMustNot},
		{"mustnot(", sigilMustNot},
		{"not(", sigilMustNot},
		{"mustbe(", sigilMust},
		{"must(", sigilMust},
		{"shouldbe(", sigilShould},
		{"should(", sigilShould},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p.kw) {
			// Keep the "(" so the tier splitter still sees the group open.
			return p.sigil, w[len(p.kw)-1:], true
		}
	}
	return "", "", false
}
