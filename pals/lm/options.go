package lm

// Config controls the solver.
type Config struct {
	MaxIterations int     // cap on Jacobian evaluations (outer iterations)
	Ftol          float64 // relative chi-square reduction tolerance
	Xtol          float64 // relative step size tolerance
	Gtol          float64 // orthogonality tolerance
	Epsfcn        float64 // relative forward-difference step (squared)
	Lambda        float64 // initial damping factor
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the MINPACK-style defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 200,
		Ftol:          1e-10,
		Xtol:          1e-10,
		Gtol:          1e-10,
		Epsfcn:        machEps,
		Lambda:        1e-3,
	}
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxIterations = n
		}
	}
}

// WithTolerances sets ftol, xtol and gtol. Non-positive values are ignored.
func WithTolerances(ftol, xtol, gtol float64) Option {
	return func(cfg *Config) {
		if ftol > 0 {
			cfg.Ftol = ftol
		}
		if xtol > 0 {
			cfg.Xtol = xtol
		}
		if gtol > 0 {
			cfg.Gtol = gtol
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

// normalized replaces unset fields with defaults.
func (cfg Config) normalized() Config {
	def := DefaultConfig()
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.Ftol <= 0 {
		cfg.Ftol = def.Ftol
	}
	if cfg.Xtol <= 0 {
		cfg.Xtol = def.Xtol
	}
	if cfg.Gtol <= 0 {
		cfg.Gtol = def.Gtol
	}
	if cfg.Epsfcn <= 0 {
		cfg.Epsfcn = def.Epsfcn
	}
	if cfg.Lambda <= 0 {
		cfg.Lambda = def.Lambda
	}
	return cfg
}
