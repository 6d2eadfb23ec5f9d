package query

// Occur states whether a clause or subtree must, should, or must-not match
// for the containing query to match. The zero value is OccurDefault, which
// resolves to OccurShould at the engine boundary.
type Occur int

const (
	OccurDefault Occur = iota
	OccurMust
	OccurShould
	OccurMustNot
)

func (o Occur) String() string {
	switch o {
	case OccurMust:
		return "MUST"
	case OccurShould:
		return "SHOULD"
	case OccurMustNot:
		return "MUST_NOT"
	default:
		return "DEFAULT"
	}
}

// Invert swaps OccurMust and OccurMustNot. OccurShould and OccurDefault are
// returned unchanged; a "not equal" over an optional clause stays optional.
func (o Occur) Invert() Occur {
	switch o {
	case OccurMust:
		return OccurMustNot
	case OccurMustNot:
		return OccurMust
	default:
		return o
	}
}

// Resolve maps OccurDefault to OccurShould and leaves everything else as-is.
func (o Occur) Resolve() Occur {
	if o == OccurDefault {
		return OccurShould
	}
	return o
}

// Sigil returns the one-character symbolic form used by the query language
// ("+", "#", "-"), or "" for OccurDefault.
func (o Occur) Sigil() string {
	switch o {
	case OccurMust:
		return "+"
	case OccurShould:
		return "#"
	case OccurMustNot:
		return "-"
	default:
		return ""
	}
}
