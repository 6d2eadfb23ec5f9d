// Package sqllang compiles a restricted SQL-like query language into the
// boolean query trees of the query package. The WHERE-clause compiler is the
// core: it normalizes the keyword vocabulary into a symbolic form, splits the
// expression into nesting tiers, builds one predicate per fragment, and folds
// the tiers into a single composite tree.
//
//	tree, err := sqllang.Parse("FirstName Should Equal 'Tim', Must(Type Must Equal '0')")
//
// This package is a front end only. It never talks to the search engine; the
// caller hands the compiled tree to a query.SearchBuilder for execution.
package sqllang

import (
	"errors"
	"fmt"
)

// Compile errors.
var (
	// ErrMalformedExpression covers structural faults: unbalanced
	// parentheses, unbalanced single quotes, a predicate fragment with fewer
	// than three tokens, an empty bracketed group, a multi-part field
	// qualifier.
	ErrMalformedExpression = errors.New("malformed expression")

	// ErrUnsupportedOperator marks a recognized but unimplemented comparator
	// (">", ">=", "<", "<=") or statement feature (JOIN, GROUP BY, ...).
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrInvalidArgument marks a missing required input at the API boundary,
	// such as an empty allowed-tables context.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ParseError provides detailed error information including position.
type ParseError struct {
	Pos     int    // byte offset in input
	Message string // human-readable error message
	Err     error  // underlying sentinel error (for errors.Is)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// newParseError creates a ParseError with the given position and sentinel error.
func newParseError(pos int, err error, msgFmt string, args ...any) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(msgFmt, args...),
		Err:     err,
	}
}
