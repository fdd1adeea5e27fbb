package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pals/internal/config"
	"github.com/cwbudde/algo-pals/internal/logger"
	"github.com/cwbudde/algo-pals/pals/fit"
)

func fitCmd() *cobra.Command {
	var (
		spectrumPath string
		maxRuns      int
		writeBack    bool
		exportPath   string
		showCurve    bool
	)

	c := &cobra.Command{
		Use:   "fit <fit.yaml>",
		Short: "Fit a lifetime spectrum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, job, err := loadJob(path, spectrumPath)
			if err != nil {
				return err
			}

			runs := f.MaxRuns
			if cmd.Flags().Changed("max-runs") {
				runs = maxRuns
			}

			eng := fit.NewEngine(fit.WithMaxRuns(runs), fit.WithLogger(logger.L()))
			res, err := eng.Fit(job)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, renderResult(DefaultTheme(), f.SpectrumPath, job.Params, res)); err != nil {
				return err
			}
			if showCurve {
				if err := writeCurve(out, job.Spectrum, res.Curve); err != nil {
					return err
				}
			}

			if !res.OK() {
				return fmt.Errorf("fit failed: %s", res.StatusText)
			}

			target := exportPath
			if writeBack {
				target = path
			}
			if target != "" {
				f.Path = target
				if err := config.SaveFit(target, config.Export(f)); err != nil {
					return err
				}
				logger.L().Info("fit.exported", "path", target)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&spectrumPath, "spectrum", "s", "", "Spectrum file (overrides the fit file)")
	c.Flags().IntVar(&maxRuns, "max-runs", fit.DefaultMaxRuns, "Maximum number of solver runs")
	c.Flags().BoolVarP(&writeBack, "write-back", "u", false, "Store fitted values as new start values in the fit file")
	c.Flags().StringVarP(&exportPath, "export", "o", "", "Write the updated fit file to this path")
	c.Flags().BoolVar(&showCurve, "curve", false, "Print the fitted curve after the summary")
	c.MarkFlagsMutuallyExclusive("write-back", "export")
	return c
}
