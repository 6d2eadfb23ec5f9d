package sqllang

// validateExpression is the structural pre-pass over a raw WHERE clause. It
// scans the text once, counting unescaped parentheses and quotes; a preceding
// backslash excludes a character from the counts. It rejects a closing
// parenthesis that arrives before its matching open, mismatched final paren
// counts, and an odd number of single quotes.
//
// Double quotes are counted but their parity is not enforced.
func validateExpression(expr string) error {
	var opens, closes, singles, doubles int
	escaped := false

	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '(':
			opens++
		case ')':
			closes++
			if closes > opens {
				return newParseError(i, ErrMalformedExpression, "unmatched closing parenthesis")
			}
		case '\'':
			singles++
		case '"':
			doubles++
		}
	}

	if opens != closes {
		return newParseError(len(expr), ErrMalformedExpression,
			"unbalanced parentheses: %d open, %d close", opens, closes)
	}
	if singles%2 != 0 {
		return newParseError(len(expr), ErrMalformedExpression, "unbalanced single quotes")
	}
	_ = doubles

	return nil
}
