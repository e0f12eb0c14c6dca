package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewReindexCommand creates the index rebuild command.
func NewReindexCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the location index from partition contents",
		Long: `Rescan every partition's month sheets and repopulate the order-id to
location index. This is the recovery path when the index file is lost or has
drifted from partition contents.

Example:
  orderreg --config orderreg.yml reindex`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}

			n, err := store.RebuildIndex()
			if err != nil {
				return WrapExitError(ExitFailure, "reindex failed", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Index rebuilt: %d entries\n", n)
			return nil
		},
	}
}
