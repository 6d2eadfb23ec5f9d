package sqllang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgodwin/searchql/query"
)

var peopleTables = TableSet{
	"people": {"FirstName", "LastName", "Type"},
	"orders": nil, // any column
}

func TestParseStatement(t *testing.T) {
	st, err := ParseStatement(
		"SELECT FirstName, LastName FROM people WHERE FirstName Must Equal 'Tim' ORDER BY LastName DESC LIMIT 10, 25",
		peopleTables,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"FirstName", "LastName"}, st.Columns)
	assert.Equal(t, []string{"people"}, st.Tables)
	assert.Equal(t, "LastName", st.OrderBy)
	assert.Equal(t, query.Desc, st.Dir)
	assert.Equal(t, 10, st.Offset)
	assert.Equal(t, 25, st.Limit)
	require.NotNil(t, st.Where)
	assert.Equal(t, 1, st.Where.Len())
}

func TestParseStatementStar(t *testing.T) {
	st, err := ParseStatement("select * from orders", peopleTables)
	require.NoError(t, err)
	assert.Empty(t, st.Columns)
	assert.Equal(t, []string{"orders"}, st.Tables)
	assert.True(t, st.Where.Empty())
}

func TestParseStatementQualifiedWhere(t *testing.T) {
	_, err := ParseStatement(
		"SELECT * FROM people WHERE people.FirstName Must Equal 'Tim'",
		peopleTables,
	)
	assert.NoError(t, err)

	// qualifier outside the FROM list
	_, err = ParseStatement(
		"SELECT * FROM people WHERE orders.FirstName Must Equal 'Tim'",
		peopleTables,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedExpression)
}

func TestParseStatementErrors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want error
	}{
		{"not a select", "DELETE FROM people", ErrMalformedExpression},
		{"missing from", "SELECT FirstName WHERE x Equal 'y'", ErrMalformedExpression},
		{"unknown table", "SELECT * FROM nowhere", ErrMalformedExpression},
		{"unknown column", "SELECT Age FROM people", ErrMalformedExpression},
		{"unknown where column", "SELECT * FROM people WHERE Age Equal '9'", ErrMalformedExpression},
		{"join", "SELECT * FROM people JOIN orders", ErrUnsupportedOperator},
		{"group by", "SELECT * FROM people GROUP BY Type", ErrUnsupportedOperator},
		{"union", "SELECT * FROM people UNION SELECT * FROM orders", ErrUnsupportedOperator},
		{"aggregate", "SELECT count(Type) FROM people", ErrUnsupportedOperator},
		{"dangling order", "SELECT * FROM people ORDER", ErrMalformedExpression},
		{"bad direction", "SELECT * FROM people ORDER BY Type SIDEWAYS", ErrMalformedExpression},
		{"bad limit", "SELECT * FROM people LIMIT ten", ErrMalformedExpression},
		{"negative limit", "SELECT * FROM people LIMIT -1", ErrMalformedExpression},
		{"malformed where", "SELECT * FROM people WHERE (x Equal 'y'", ErrMalformedExpression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStatement(tt.sql, peopleTables)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseStatementNoTables(t *testing.T) {
	_, err := ParseStatement("SELECT * FROM people", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ParseStatement("SELECT * FROM people", TableSet{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStatementSearchArgs(t *testing.T) {
	st, err := ParseStatement(
		"SELECT people.FirstName FROM people WHERE Type Must Equal '0' ORDER BY FirstName LIMIT 5",
		peopleTables,
	)
	require.NoError(t, err)

	args, err := st.Search(nil).RawArgs()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{
		"FT.SEARCH", "people", "((@Type:{0}))",
		"RETURN", "1", "FirstName",
		"SORTBY", "FirstName", "ASC",
		"LIMIT", "0", "5",
	}, args)
}

// A WHERE-less statement searches everything.
func TestStatementSearchMatchAll(t *testing.T) {
	st, err := ParseStatement("SELECT * FROM people", peopleTables)
	require.NoError(t, err)

	args, err := st.Search(nil).RawArgs()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{
		"FT.SEARCH", "people", "*",
		"LIMIT", "0", "10000",
	}, args)
}
