package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pals/pals/lm"
)

func codesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List solver status codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if _, err := fmt.Fprintf(tw, "Code\tOK\tMeaning\n----\t--\t-------\n"); err != nil {
				return err
			}
			for _, s := range lm.Statuses() {
				if _, err := fmt.Fprintf(tw, "%d\t%t\t%s\n", int(s), s.OK(), s); err != nil {
					return err
				}
			}
			return tw.Flush()
		},
	}
}
