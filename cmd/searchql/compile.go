package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgodwin/searchql/internal"
	q "github.com/mgodwin/searchql/query"
	"github.com/mgodwin/searchql/sqllang"
)

// compileOptions holds flags for the compile command.
type compileOptions struct {
	*rootOptions
	Tables []string // "name" or "name:col1,col2"
}

// compileResult is the JSON shape for both success and failure.
type compileResult struct {
	Input    string `json:"input"`
	Compiled string `json:"compiled,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newCompileCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &compileOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <query>",
		Short: "Compile a query without executing it",
		Long: `Compile a WHERE clause, or a full SELECT statement, into the
RediSearch query it would produce. Statements start with SELECT and are
validated against the tables given via --table.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Tables, "table", "t", nil,
		"allowed table, as name or name:col1,col2 (repeatable)")

	return cmd
}

func runCompile(opts *compileOptions, input string, w io.Writer) error {
	compiled, tree, err := compileInput(opts, input)

	if opts.Format == "json" {
		res := compileResult{Input: input, Compiled: compiled}
		if err != nil {
			res.Error = err.Error()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(res); encErr != nil {
			return encErr
		}
		return err
	}

	if err != nil {
		fmt.Fprintf(w, "✗ %v\n", err)
		return err
	}
	fmt.Fprintln(w, compiled)
	if opts.Verbose && tree != nil {
		fmt.Fprintln(w)
		dumpTree(w, tree, q.OccurDefault, 0)
	}
	return nil
}

// compileInput dispatches on the input shape: a leading SELECT means a full
// statement, anything else is a bare WHERE clause.
func compileInput(opts *compileOptions, input string) (string, *q.Boolean, error) {
	if isStatement(input) {
		st, err := sqllang.ParseStatement(input, parseTableFlags(opts.Tables))
		if err != nil {
			return "", nil, err
		}
		args, err := st.Search(nil).RawArgs()
		if err != nil {
			return "", nil, err
		}
		return argsString(args), st.Where, nil
	}

	tree, err := sqllang.Parse(input)
	if err != nil {
		return "", nil, err
	}
	return q.Compile(tree), tree, nil
}

func isStatement(input string) bool {
	head := strings.Fields(input)
	return len(head) > 0 && strings.EqualFold(head[0], "select")
}

// parseTableFlags turns repeated --table values into a TableSet.
func parseTableFlags(specs []string) sqllang.TableSet {
	set := sqllang.TableSet{}
	for _, s := range specs {
		name, cols, found := strings.Cut(s, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !found {
			set[name] = nil // any column
			continue
		}
		list := internal.Map(strings.Split(cols, ","), strings.TrimSpace)
		set[name] = internal.Filter(list, func(c string) bool { return c != "" })
	}
	return set
}

func argsString(args []interface{}) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, " ")
}

// dumpTree prints the boolean tree with two-space indentation per level.
func dumpTree(w io.Writer, e q.Expr, o q.Occur, depth int) {
	indent := strings.Repeat("  ", depth)
	if b, ok := e.(*q.Boolean); ok {
		fmt.Fprintf(w, "%s%s boolean(%d)\n", indent, o, b.Len())
		for _, c := range b.Children() {
			dumpTree(w, c.Node, c.Occur, depth+1)
		}
		return
	}
	if f, ok := q.MatchedField(e); ok {
		v, _ := q.MatchedValue(e)
		fmt.Fprintf(w, "%s%s %s.%s = %v\n", indent, o, f.Qualifier, f.Name, v)
		return
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, o, q.Compile(e))
}
