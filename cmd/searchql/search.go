package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/mgodwin/searchql/config"
	"github.com/mgodwin/searchql/driver"
	"github.com/mgodwin/searchql/internal"
	"github.com/mgodwin/searchql/repository"
	"github.com/mgodwin/searchql/telemetry"
)

// searchOptions holds flags for the search command.
type searchOptions struct {
	*rootOptions
	Index  string
	Select []string
	SortBy string
	Desc   bool
	Limit  int
	Tables []string
}

func newSearchCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &searchOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Execute a query against a RediSearch server",
		Long: `Execute a WHERE clause against --index, or a full SELECT statement
whose FROM table names the index. Connection settings come from
config.yaml and SEARCHQL_* environment variables.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Index, "index", "i", "", "index to search (WHERE-clause mode)")
	cmd.Flags().StringSliceVar(&opts.Select, "select", nil, "fields to return")
	cmd.Flags().StringVar(&opts.SortBy, "sort", "", "field to sort by")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "maximum rows")
	cmd.Flags().StringArrayVarP(&opts.Tables, "table", "t", nil,
		"allowed table, as name or name:col1,col2 (statement mode, repeatable)")

	return cmd
}

func runSearch(ctx context.Context, opts *searchOptions, input string, w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Protocol: 2,
	})
	conn := driver.NewRedisearchConn(client)
	defer conn.Close()

	hub := telemetry.NewHub()
	defer hub.Subscribe(func(ev telemetry.Event) {
		slog.Debug("query event",
			"id", ev.ID, "kind", ev.Kind, "input", ev.Input,
			"compiled", ev.Compiled, "err", ev.Err)
	})()

	repo := repository.New(opts.Index, conn).WithTelemetry(hub)

	var rows []map[string]string
	if isStatement(input) {
		rows, err = repo.Query(ctx, input, parseTableFlags(opts.Tables))
	} else {
		if opts.Index == "" {
			return fmt.Errorf("--index is required for a WHERE-clause query")
		}
		rows, err = repo.SearchSQL(ctx, input, searchOpts(opts)...)
	}
	if err != nil {
		return err
	}
	return writeRows(w, opts.Format, rows)
}

func searchOpts(opts *searchOptions) []repository.Opt {
	out := []repository.Opt{repository.Limit(0, opts.Limit)}
	if len(opts.Select) > 0 {
		out = append(out, repository.Select(opts.Select...))
	}
	if opts.SortBy != "" {
		if opts.Desc {
			out = append(out, repository.SortDesc(opts.SortBy))
		} else {
			out = append(out, repository.SortAsc(opts.SortBy))
		}
	}
	return out
}

func writeRows(w io.Writer, format string, rows []map[string]string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Fprintf(w, "%d result(s)\n", len(rows))
	for i, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		width := 0
		if len(keys) > 0 {
			width = internal.Max(internal.Map(keys, func(k string) int { return len(k) }))
		}
		fmt.Fprintf(w, "%d:\n", i+1)
		for _, k := range keys {
			fmt.Fprintf(w, "  %-*s  %s\n", width, k, row[k])
		}
	}
	return nil
}
