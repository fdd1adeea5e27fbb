package simulate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-pals/pals/model"
	"github.com/cwbudde/algo-pals/pals/spectrum"
)

var (
	ErrNoChannels        = errors.New("simulate: channel count must be at least 2")
	ErrInvalidResolution = errors.New("simulate: channel resolution must be positive")
	ErrNoDecay           = errors.New("simulate: at least one decay component is required")
	ErrNoKernel          = errors.New("simulate: at least one IRF component is required")
	ErrInvalidComponent  = errors.New("simulate: invalid component")
)

// kernelSpan is the half-width of the sampled IRF in units of its width.
const kernelSpan = 6

// Config describes a synthetic spectrum. Decay lifetimes and kernel FWHM/Mu
// are in picoseconds.
type Config struct {
	Channels   int
	Resolution float64 // ps per channel
	Counts     float64 // decay events, before truncation at the spectrum edges
	Background float64 // mean counts per channel
	Decays     []model.Decay
	Kernels    []model.Kernel
	Seed       uint64
	Noiseless  bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a two-component spectrum on 1000 channels of 25 ps.
func DefaultConfig() Config {
	return Config{
		Channels:   1000,
		Resolution: 25,
		Counts:     1e6,
		Background: 5,
		Decays: []model.Decay{
			{Tau: 400, Intensity: 0.1},
			{Tau: 180, Intensity: 0.9},
		},
		Kernels: []model.Kernel{{FWHM: 230, Mu: 0, Intensity: 1}},
		Seed:    1,
	}
}

// WithChannels sets the spectrum length.
func WithChannels(n int) Option {
	return func(cfg *Config) { cfg.Channels = n }
}

// WithResolution sets the channel width in picoseconds.
func WithResolution(ps float64) Option {
	return func(cfg *Config) { cfg.Resolution = ps }
}

// WithCounts sets the number of decay events.
func WithCounts(n float64) Option {
	return func(cfg *Config) { cfg.Counts = n }
}

// WithBackground sets the mean background per channel.
func WithBackground(b float64) Option {
	return func(cfg *Config) { cfg.Background = b }
}

// WithDecays replaces the decay components.
func WithDecays(d ...model.Decay) Option {
	return func(cfg *Config) { cfg.Decays = append([]model.Decay(nil), d...) }
}

// WithKernels replaces the IRF components.
func WithKernels(k ...model.Kernel) Option {
	return func(cfg *Config) { cfg.Kernels = append([]model.Kernel(nil), k...) }
}

// WithSeed sets the noise seed.
func WithSeed(seed uint64) Option {
	return func(cfg *Config) { cfg.Seed = seed }
}

// WithoutNoise rounds the expected counts instead of sampling them.
func WithoutNoise() Option {
	return func(cfg *Config) { cfg.Noiseless = true }
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg Config) validate() error {
	switch {
	case cfg.Channels < 2:
		return ErrNoChannels
	case cfg.Resolution <= 0 || math.IsNaN(cfg.Resolution):
		return ErrInvalidResolution
	case len(cfg.Decays) == 0:
		return ErrNoDecay
	case len(cfg.Kernels) == 0:
		return ErrNoKernel
	}

	for i, d := range cfg.Decays {
		if d.Tau <= 0 || d.Intensity < 0 {
			return fmt.Errorf("%w: decay %d (tau %g, intensity %g)", ErrInvalidComponent, i, d.Tau, d.Intensity)
		}
	}
	for i, k := range cfg.Kernels {
		if k.FWHM <= 0 || k.Intensity < 0 {
			return fmt.Errorf("%w: irf %d (fwhm %g, intensity %g)", ErrInvalidComponent, i, k.FWHM, k.Intensity)
		}
	}
	return nil
}

// Expected returns the noiseless expected counts per channel.
func Expected(cfg Config) ([]float64, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	n := cfg.Channels
	ideal := make([]float64, n)
	for _, d := range cfg.Decays {
		tau := d.Tau / cfg.Resolution
		for i := range ideal {
			x0 := float64(i)
			ideal[i] += d.Intensity * (math.Exp(-x0/tau) - math.Exp(-(x0+1)/tau))
		}
	}

	kernel, offset := irf(cfg.Kernels, cfg.Resolution)
	c, err := newConvolver(kernel, 0)
	if err != nil {
		return nil, err
	}
	full, err := c.process(ideal)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := range out {
		v := 0.0
		if j := i - offset; j >= 0 && j < len(full) {
			v = math.Max(full[j], 0)
		}
		out[i] = cfg.Counts*v + cfg.Background
	}
	return out, nil
}

// Generate returns a synthetic spectrum on channels 0..Channels-1.
func Generate(cfg Config) (spectrum.Spectrum, error) {
	mean, err := Expected(cfg)
	if err != nil {
		return nil, err
	}

	counts := make([]int, len(mean))
	if cfg.Noiseless {
		for i, v := range mean {
			counts[i] = int(math.Round(v))
		}
		return spectrum.FromCounts(counts), nil
	}

	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	for i, v := range mean {
		if v <= 0 {
			continue
		}
		counts[i] = int(distuv.Poisson{Lambda: v, Src: src}.Rand())
	}
	return spectrum.FromCounts(counts), nil
}

// irf samples the intensity-weighted sum of Gaussians, each integrated over
// one channel. offset is the channel lag of kernel[0].
func irf(kernels []model.Kernel, resolution float64) ([]float64, int) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, k := range kernels {
		sigma := k.FWHM / resolution / model.FWHMToSigma
		mu := k.Mu / resolution
		lo = math.Min(lo, mu-kernelSpan*sigma)
		hi = math.Max(hi, mu+kernelSpan*sigma)
	}

	offset := int(math.Floor(lo - 0.5))
	last := int(math.Ceil(hi + 0.5))
	kernel := make([]float64, last-offset+1)

	for _, k := range kernels {
		sigma := k.FWHM / resolution / model.FWHMToSigma
		mu := k.Mu / resolution
		for j := range kernel {
			x := float64(j + offset)
			kernel[j] += k.Intensity * 0.5 * (math.Erf((x+0.5-mu)/sigma) - math.Erf((x-0.5-mu)/sigma))
		}
	}

	return kernel, offset
}
