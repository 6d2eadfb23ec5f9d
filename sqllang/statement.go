package sqllang

import (
	"strconv"
	"strings"

	"github.com/mgodwin/searchql/driver"
	"github.com/mgodwin/searchql/internal"
	"github.com/mgodwin/searchql/query"
)

// TableSet is the allowed-tables context for statement validation: table
// name → known column names. A nil or empty column list accepts any column
// of that table.
type TableSet map[string][]string

// Statement is a scanned SELECT statement. Columns is empty for "SELECT *".
type Statement struct {
	Columns []string
	Tables  []string
	Where   *query.Boolean
	OrderBy string
	Dir     query.Dir
	Offset  int
	Limit   int

	hasLimit bool
}

// Statement keywords the scanner recognizes, and features it rejects.
var rejectedKeywords = map[string]string{
	"join":   "JOIN",
	"inner":  "JOIN",
	"outer":  "JOIN",
	"having": "HAVING",
	"group":  "GROUP BY",
	"union":  "UNION",
}

var aggregateFuncs = []string{"count(", "sum(", "avg(", "min(", "max("}

// ParseStatement scans a restricted "SELECT <cols|*> FROM <tables> [WHERE
// <expr>] [ORDER BY <col> [ASC|DESC]] [LIMIT [off,] n]" statement, compiles
// the WHERE clause, and cross-checks every table qualifier against the FROM
// list and the allowed-tables context. tables must be non-empty.
func ParseStatement(sql string, tables TableSet) (*Statement, error) {
	if len(tables) == 0 {
		return nil, newParseError(0, ErrInvalidArgument, "no allowed-tables context supplied")
	}

	words := strings.Fields(sql)
	if len(words) == 0 || !strings.EqualFold(words[0], "select") {
		return nil, newParseError(0, ErrMalformedExpression, "statement must start with SELECT")
	}

	for _, w := range words {
		lower := strings.ToLower(strings.TrimRight(w, ","))
		if kw, ok := rejectedKeywords[lower]; ok {
			return nil, newParseError(0, ErrUnsupportedOperator, "%s is not supported", kw)
		}
		if internal.Any(aggregateFuncs, func(fn string) bool { return strings.HasPrefix(lower, fn) }) {
			return nil, newParseError(0, ErrUnsupportedOperator, "aggregate functions are not supported")
		}
	}

	sel, rest := clause(words[1:], "from")
	if rest == nil {
		return nil, newParseError(0, ErrMalformedExpression, "missing FROM clause")
	}
	from, rest := clause(rest, "where", "order", "limit")
	whereWords, rest := optionalClause(rest, "where", "order", "limit")
	orderWords, rest := optionalClause(rest, "order", "limit")
	limitWords, rest := optionalClause(rest, "limit")
	if len(rest) > 0 {
		return nil, newParseError(0, ErrMalformedExpression, "unexpected trailing input %q",
			strings.Join(rest, " "))
	}

	st := &Statement{Dir: query.Asc}

	if err := st.scanSelect(sel); err != nil {
		return nil, err
	}
	if err := st.scanFrom(from, tables); err != nil {
		return nil, err
	}

	where, err := Parse(strings.Join(whereWords, " "))
	if err != nil {
		return nil, err
	}
	st.Where = where

	if err := st.scanOrderBy(orderWords); err != nil {
		return nil, err
	}
	if err := st.scanLimit(limitWords); err != nil {
		return nil, err
	}

	if err := st.crossCheck(tables); err != nil {
		return nil, err
	}
	return st, nil
}

// clause returns the words up to (but excluding) the first stop keyword,
// plus the remainder starting at that keyword. rest is nil when no stop
// keyword occurs.
func clause(words []string, stops ...string) (body, rest []string) {
	for i, w := range words {
		if internal.Contains(stops, strings.ToLower(w)) {
			return words[:i], words[i:]
		}
	}
	return words, nil
}

// optionalClause consumes "rest" when it starts with kw (skipping the "BY"
// of ORDER BY), returning the clause body and the new remainder.
func optionalClause(rest []string, kw string, stops ...string) (body, newRest []string) {
	if len(rest) == 0 || !strings.EqualFold(rest[0], kw) {
		return nil, rest
	}
	head := rest
	rest = rest[1:]
	if kw == "order" {
		// A dangling ORDER without BY is left for the trailing-input check.
		if len(rest) == 0 || !strings.EqualFold(rest[0], "by") {
			return nil, head
		}
		rest = rest[1:]
	}
	body, newRest = clause(rest, stops...)
	if newRest == nil {
		newRest = []string{}
	}
	return body, newRest
}

func (s *Statement) scanSelect(sel []string) error {
	if len(sel) == 0 {
		return newParseError(0, ErrMalformedExpression, "SELECT needs at least one column")
	}
	if len(sel) == 1 && sel[0] == "*" {
		return nil
	}
	for _, w := range sel {
		for _, col := range strings.Split(w, ",") {
			if col = strings.TrimSpace(col); col != "" {
				s.Columns = append(s.Columns, col)
			}
		}
	}
	if len(s.Columns) == 0 {
		return newParseError(0, ErrMalformedExpression, "SELECT needs at least one column")
	}
	return nil
}

func (s *Statement) scanFrom(from []string, tables TableSet) error {
	if len(from) < 2 || !strings.EqualFold(from[0], "from") {
		return newParseError(0, ErrMalformedExpression, "missing FROM clause")
	}
	for _, w := range from[1:] {
		for _, tbl := range strings.Split(w, ",") {
			if tbl = strings.TrimSpace(tbl); tbl != "" {
				s.Tables = append(s.Tables, tbl)
			}
		}
	}
	if len(s.Tables) == 0 {
		return newParseError(0, ErrMalformedExpression, "FROM needs at least one table")
	}
	s.Tables = internal.Unique(s.Tables)
	for _, tbl := range s.Tables {
		if _, ok := tables[tbl]; !ok {
			return newParseError(0, ErrMalformedExpression, "unknown table %q", tbl)
		}
	}
	return nil
}

func (s *Statement) scanOrderBy(order []string) error {
	switch len(order) {
	case 0:
		return nil
	case 1:
		s.OrderBy = order[0]
		return nil
	case 2:
		s.OrderBy = order[0]
		switch strings.ToLower(order[1]) {
		case "asc":
			s.Dir = query.Asc
		case "desc":
			s.Dir = query.Desc
		default:
			return newParseError(0, ErrMalformedExpression, "ORDER BY direction must be ASC or DESC")
		}
		return nil
	default:
		return newParseError(0, ErrMalformedExpression, "ORDER BY takes a single column")
	}
}

func (s *Statement) scanLimit(limit []string) error {
	if len(limit) == 0 {
		return nil
	}
	nums := strings.Split(strings.Join(limit, ""), ",")
	var parsed []int
	for _, n := range nums {
		if n = strings.TrimSpace(n); n == "" {
			continue
		}
		v, err := strconv.Atoi(n)
		if err != nil || v < 0 {
			return newParseError(0, ErrMalformedExpression, "LIMIT takes non-negative integers")
		}
		parsed = append(parsed, v)
	}
	switch len(parsed) {
	case 1:
		s.Limit = parsed[0]
	case 2:
		s.Offset, s.Limit = parsed[0], parsed[1]
	default:
		return newParseError(0, ErrMalformedExpression, "LIMIT takes one or two integers")
	}
	s.hasLimit = true
	return nil
}

// crossCheck verifies every qualified field in the WHERE tree against the
// FROM list, and column names against the allowed-tables context when the
// context carries column sets.
func (s *Statement) crossCheck(tables TableSet) error {
	for _, col := range s.Columns {
		if err := checkColumn(parseColumnRef(col), s.Tables, tables); err != nil {
			return err
		}
	}
	if s.OrderBy != "" {
		if err := checkColumn(parseColumnRef(s.OrderBy), s.Tables, tables); err != nil {
			return err
		}
	}

	var walkErr error
	s.Where.Walk(func(e query.Expr, _ query.Occur) {
		if walkErr != nil {
			return
		}
		if f, ok := query.MatchedField(e); ok {
			walkErr = checkColumn(f, s.Tables, tables)
		}
	})
	return walkErr
}

func parseColumnRef(col string) query.Field {
	if q, name, ok := strings.Cut(col, "."); ok {
		return query.Field{Qualifier: q, Name: name}
	}
	return query.Field{Qualifier: query.AnyQualifier, Name: col}
}

func checkColumn(f query.Field, from []string, tables TableSet) error {
	candidates := from
	if f.Qualifier != query.AnyQualifier {
		if !internal.Contains(from, f.Qualifier) {
			return newParseError(0, ErrMalformedExpression,
				"field %q references a table outside the FROM clause", f.String())
		}
		candidates = []string{f.Qualifier}
	}
	for _, tbl := range candidates {
		cols := tables[tbl]
		if len(cols) == 0 || internal.Contains(cols, f.Name) {
			return nil
		}
	}
	return newParseError(0, ErrMalformedExpression, "unknown column %q", f.String())
}

// Search returns a ready FT.SEARCH builder for the statement: the first FROM
// table names the index, the WHERE tree is merged under the statement root
// with a Must occurrence, and SELECT / ORDER BY / LIMIT map to RETURN /
// SORTBY / LIMIT.
func (s *Statement) Search(ex driver.Executor) *query.SearchBuilder {
	root := query.NewBoolean().Merge(s.Where, query.OccurMust)

	b := query.NewSearch(s.Tables[0]).Where(root).Using(ex)
	if len(s.Columns) > 0 {
		b.Select(columnNames(s.Columns)...)
	}
	if s.OrderBy != "" {
		b.SortBy(parseColumnRef(s.OrderBy).Name, s.Dir)
	}
	if s.hasLimit {
		b.Limit(s.Offset, s.Limit)
	}
	return b
}

// columnNames strips table qualifiers; the engine knows unqualified field
// names only.
func columnNames(cols []string) []string {
	return internal.Map(cols, func(c string) string { return parseColumnRef(c).Name })
}
