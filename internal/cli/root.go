// Package cli implements the orderreg command line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/orderreg/internal/config"
	"github.com/roach88/orderreg/internal/register"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the orderreg CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "orderreg",
		Short: "Spreadsheet-backed purchase order register",
		Long: `orderreg records purchase orders extracted from email documents in
year-partitioned workbook files and keeps a durable location index next to
them. Closure notifications are matched against the index and applied to the
order's existing row.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config (required)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	_ = cmd.MarkPersistentFlagRequired("config")

	cmd.AddCommand(NewIngestCommand(opts))
	cmd.AddCommand(NewBulkCommand(opts))
	cmd.AddCommand(NewCloseCommand(opts))
	cmd.AddCommand(NewReindexCommand(opts))

	return cmd
}

// openStore loads the configuration and opens the workbook store.
func openStore(opts *RootOptions) (*register.Store, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return register.New(cfg.Storage.Root, cfg.Template), nil
}
