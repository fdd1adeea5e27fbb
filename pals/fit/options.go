package fit

import "log/slog"

const (
	// DefaultMaxRuns caps the number of solver runs per fit.
	DefaultMaxRuns = 20
	// DefaultThreshold is the raw chi-square improvement below which a run
	// counts as converged.
	DefaultThreshold = 1e-5
)

// Config holds the engine configuration.
type Config struct {
	Solver    Solver
	MaxRuns   int
	Threshold float64
	Logger    *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the LM solver, 20 runs and a 1e-5 threshold with
// logging discarded.
func DefaultConfig() Config {
	return Config{
		Solver:    NewLMSolver(),
		MaxRuns:   DefaultMaxRuns,
		Threshold: DefaultThreshold,
		Logger:    slog.New(slog.DiscardHandler),
	}
}

// WithSolver replaces the solver. nil keeps the default.
func WithSolver(s Solver) Option {
	return func(cfg *Config) {
		if s != nil {
			cfg.Solver = s
		}
	}
}

// WithMaxRuns sets the run cap. Values below 1 are ignored.
func WithMaxRuns(n int) Option {
	return func(cfg *Config) {
		if n >= 1 {
			cfg.MaxRuns = n
		}
	}
}

// WithThreshold sets the convergence threshold on the raw chi-square.
func WithThreshold(t float64) Option {
	return func(cfg *Config) {
		if t >= 0 {
			cfg.Threshold = t
		}
	}
}

// WithLogger sets the logger. nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
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
