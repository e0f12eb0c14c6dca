package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/orderreg/internal/parser"
	"github.com/roach88/orderreg/internal/pipeline"
)

// NewBulkCommand creates the batch ingestion command.
func NewBulkCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk <directory>",
		Short: "Record every order document under a directory",
		Long: `Recursively collect *.eml documents, parse them concurrently, then commit
orders one at a time in submission order. A document that fails to parse or
an order that already exists is skipped with a warning; skips never fail the
batch.

Example:
  orderreg --config orderreg.yml bulk inbox/`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}

			docs, err := pipeline.FindDocuments(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to scan documents", err)
			}

			p := pipeline.New(store, parser.EmailParser{}, nil)
			summary, err := p.IngestBatch(cmd.Context(), docs)
			if err != nil {
				return WrapExitError(ExitFailure, "batch aborted", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}
