package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/orderreg/internal/parser"
	"github.com/roach88/orderreg/internal/pipeline"
)

// NewCloseCommand creates the closure batch command.
func NewCloseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "close <directory>",
		Short: "Apply closure notifications to recorded orders",
		Long: `Process closure emails one at a time: resolve each referenced order
through the index, write the closure date and closed flag into the order's
row, and copy the notification plus any sibling files naming the same order
into the order's attachment directory.

Acts referencing unknown orders are skipped with a warning.

Example:
  orderreg --config orderreg.yml close resolutions/`,
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

			closer := pipeline.NewCloser(store, parser.ClosureParser{})
			summary, err := closer.CloseBatch(cmd.Context(), docs)
			if err != nil {
				return WrapExitError(ExitFailure, "batch aborted", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}
