package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pals/pals/fit"
	"github.com/cwbudde/algo-pals/pals/spectrum"
)

func previewCmd() *cobra.Command {
	var spectrumPath string

	c := &cobra.Command{
		Use:   "preview <fit.yaml>",
		Short: "Print the model curve for the start values without fitting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, job, err := loadJob(args[0], spectrumPath)
			if err != nil {
				return err
			}

			curve, err := fit.NewEngine().Preview(job)
			if err != nil {
				return err
			}
			return writeCurve(cmd.OutOrStdout(), job.Spectrum, curve)
		},
	}

	c.Flags().StringVarP(&spectrumPath, "spectrum", "s", "", "Spectrum file (overrides the fit file)")
	return c
}

// writeCurve prints channel, observed counts and model value per row.
func writeCurve(w io.Writer, spec spectrum.Spectrum, curve []spectrum.Sample) error {
	observed := make(map[int]int, len(spec))
	for _, p := range spec {
		observed[p.Channel] = p.Counts
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Channel\tCounts\tModel\n"); err != nil {
		return err
	}
	for _, s := range curve {
		if _, err := fmt.Fprintf(tw, "%d\t%d\t%.3f\n", s.Channel, observed[s.Channel], s.Value); err != nil {
			return err
		}
	}
	return tw.Flush()
}
