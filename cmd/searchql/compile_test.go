package main

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args and returns stdout plus the command error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestCompileWhereText(t *testing.T) {
	out, err := execute(t, "compile",
		"FirstName Should Equal 'Tim', Must(Type Must Equal '0')")
	require.NoError(t, err)
	golden(t).Assert(t, "compile_where_text", []byte(out))
}

func TestCompileWhereVerbose(t *testing.T) {
	out, err := execute(t, "compile", "-v",
		"FirstName Should Equal 'Tim', Must(Type Must Equal '0')")
	require.NoError(t, err)
	golden(t).Assert(t, "compile_where_verbose", []byte(out))
}

func TestCompileWhereJSON(t *testing.T) {
	out, err := execute(t, "compile", "--format", "json",
		"FirstName Should Equal 'Tim', Must(Type Must Equal '0')")
	require.NoError(t, err)
	golden(t).Assert(t, "compile_where_json", []byte(out))
}

func TestCompileStatementText(t *testing.T) {
	out, err := execute(t, "compile",
		"--table", "people:FirstName,LastName,Type",
		"SELECT FirstName FROM people WHERE Type Must Equal '0' LIMIT 5")
	require.NoError(t, err)
	golden(t).Assert(t, "compile_statement_text", []byte(out))
}

func TestCompileErrorJSON(t *testing.T) {
	out, err := execute(t, "compile", "--format", "json",
		"FirstName Equal 'Tim')")
	require.Error(t, err)
	golden(t).Assert(t, "compile_error_json", []byte(out))
}

func TestCompileRejectsBadFormat(t *testing.T) {
	_, err := execute(t, "compile", "--format", "yaml", "a Equal 'x'")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestParseTableFlags(t *testing.T) {
	set := parseTableFlags([]string{"people:FirstName, LastName", "orders", " :x"})
	assert.Equal(t, []string{"FirstName", "LastName"}, set["people"])
	v, ok := set["orders"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Len(t, set, 2)
}

func TestIsStatement(t *testing.T) {
	assert.True(t, isStatement("SELECT * FROM people"))
	assert.True(t, isStatement("  select x from y"))
	assert.False(t, isStatement("FirstName Equal 'Tim'"))
	assert.False(t, isStatement(""))
}
