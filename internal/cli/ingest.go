package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/orderreg/internal/parser"
	"github.com/roach88/orderreg/internal/pipeline"
)

// NewIngestCommand creates the single-document ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <document.eml>",
		Short: "Record one order document",
		Long: `Parse a single purchase-order email, append the order to its year/month
partition and copy the document into the order's attachment directory.

Unlike bulk ingestion, a parse or store failure here surfaces as a nonzero
exit status.

Example:
  orderreg --config orderreg.yml ingest inbox/order.eml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}

			p := pipeline.New(store, parser.EmailParser{}, nil)
			order, added, err := p.Ingest(args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "ingest failed", err)
			}

			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Order %d recorded\n", order.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Order %d already present, skipped\n", order.ID)
			}
			return nil
		},
	}
}
