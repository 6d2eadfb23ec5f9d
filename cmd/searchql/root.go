package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgodwin/searchql/config"
	"github.com/mgodwin/searchql/internal"
)

// rootOptions holds global flags shared by all subcommands.
type rootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

var validFormats = []string{"text", "json"}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "searchql",
		Short: "SQL-like query front end for RediSearch",
		Long: `searchql compiles WHERE clauses and SELECT statements written in a
restricted SQL dialect into RediSearch query strings, and can execute
them against a running server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !internal.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			setupLogging(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newCompileCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))

	return cmd
}

// setupLogging installs a text slog handler on stderr so JSON output on
// stdout stays machine-readable. The config file level applies unless
// --verbose forces debug.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if cfg, err := config.Load(); err == nil {
		level = cfg.SlogLevel()
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
