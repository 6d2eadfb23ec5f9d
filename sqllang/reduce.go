package sqllang

import (
	"strings"

	"github.com/mgodwin/searchql/query"
)

// reduceTiers folds the tier list into a single composite tree. Tiers arrive
// in close order (innermost first, outermost last); each later tier's node
// absorbs the running composite as one of its children, attached with the
// running occurrence. Nested groups thereby fold into their enclosing
// expression, and the outermost tier ends up as the root. An empty tier list
// yields an empty composite.
func reduceTiers(tiers []tier) (*query.Boolean, error) {
	if len(tiers) == 0 {
		return query.NewBoolean(), nil
	}

	running, occ, err := buildTier(tiers[0])
	if err != nil {
		return nil, err
	}

	for _, t := range tiers[1:] {
		node, nodeOcc, err := buildTier(t)
		if err != nil {
			return nil, err
		}
		node.Add(running, occ)
		running, occ = node, nodeOcc
	}

	return running, nil
}

// Parse compiles a WHERE-clause body (without the WHERE keyword) into a
// boolean query tree. Empty input compiles to an empty composite, not an
// error. Every failure is a *ParseError wrapping one of the sentinel errors
// and aborts the whole compile; there is no partial result.
func Parse(where string) (*query.Boolean, error) {
	if err := validateExpression(where); err != nil {
		return nil, err
	}
	if strings.TrimSpace(where) == "" {
		return query.NewBoolean(), nil
	}

	tiers, err := splitTiers(normalize(where))
	if err != nil {
		return nil, err
	}
	return reduceTiers(tiers)
}
