package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pals/internal/config"
	"github.com/cwbudde/algo-pals/internal/logger"
	"github.com/cwbudde/algo-pals/pals/model"
	"github.com/cwbudde/algo-pals/pals/simulate"
)

func simulateCmd() *cobra.Command {
	var (
		channels   int
		resolution float64
		counts     float64
		background float64
		seed       uint64
		noiseless  bool
		decays     []string
		kernels    []string
		output     string
	)

	def := simulate.DefaultConfig()

	c := &cobra.Command{
		Use:   "simulate",
		Short: "Generate a synthetic lifetime spectrum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []simulate.Option{
				simulate.WithChannels(channels),
				simulate.WithResolution(resolution),
				simulate.WithCounts(counts),
				simulate.WithBackground(background),
				simulate.WithSeed(seed),
			}
			if noiseless {
				opts = append(opts, simulate.WithoutNoise())
			}

			if len(decays) > 0 {
				d, err := parseDecays(decays)
				if err != nil {
					return err
				}
				opts = append(opts, simulate.WithDecays(d...))
			}
			if len(kernels) > 0 {
				k, err := parseKernels(kernels)
				if err != nil {
					return err
				}
				opts = append(opts, simulate.WithKernels(k...))
			}

			spec, err := simulate.Generate(simulate.ApplyOptions(opts...))
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if err := config.WriteSpectrum(w, spec); err != nil {
				return err
			}
			logger.L().Info("simulate.written", "channels", len(spec), "digest", fmt.Sprintf("%016x", spec.Digest()), "path", output)
			return nil
		},
	}

	c.Flags().IntVarP(&channels, "channels", "n", def.Channels, "Number of channels")
	c.Flags().Float64VarP(&resolution, "resolution", "r", def.Resolution, "Channel width in ps")
	c.Flags().Float64Var(&counts, "counts", def.Counts, "Number of decay events")
	c.Flags().Float64Var(&background, "background", def.Background, "Mean background counts per channel")
	c.Flags().Uint64Var(&seed, "seed", def.Seed, "Noise seed")
	c.Flags().BoolVar(&noiseless, "noiseless", false, "Round expected counts instead of sampling Poisson noise")
	c.Flags().StringArrayVar(&decays, "decay", nil, "Decay component tau:intensity in ps (repeatable)")
	c.Flags().StringArrayVar(&kernels, "irf", nil, "IRF component fwhm:mu:intensity in ps (repeatable)")
	c.Flags().StringVarP(&output, "output", "o", "", "Write the spectrum to this file instead of stdout")
	return c
}

func parseDecays(in []string) ([]model.Decay, error) {
	out := make([]model.Decay, 0, len(in))
	for _, s := range in {
		v, err := parseFields(s, 2)
		if err != nil {
			return nil, fmt.Errorf("decay %q: %w", s, err)
		}
		out = append(out, model.Decay{Tau: v[0], Intensity: v[1]})
	}
	return out, nil
}

func parseKernels(in []string) ([]model.Kernel, error) {
	out := make([]model.Kernel, 0, len(in))
	for _, s := range in {
		v, err := parseFields(s, 3)
		if err != nil {
			return nil, fmt.Errorf("irf %q: %w", s, err)
		}
		out = append(out, model.Kernel{FWHM: v[0], Mu: v[1], Intensity: v[2]})
	}
	return out, nil
}

func parseFields(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d colon-separated values, got %d", n, len(parts))
	}

	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
