package cli

import (
	"errors"

	"github.com/cwbudde/algo-pals/internal/config"
	"github.com/cwbudde/algo-pals/pals/fit"
)

var errNoSpectrum = errors.New("no spectrum file (set 'spectrum' in the fit file or pass --spectrum)")

// loadJob reads a fit description and its spectrum. A non-empty override
// replaces the spectrum path of the file.
func loadJob(path, override string) (config.Fit, *fit.Job, error) {
	f, err := config.LoadFit(path)
	if err != nil {
		return config.Fit{}, nil, err
	}

	if override != "" {
		f.SpectrumPath = override
	}
	if f.SpectrumPath == "" {
		return config.Fit{}, nil, errNoSpectrum
	}

	spec, err := config.LoadSpectrum(f.SpectrumPath)
	if err != nil {
		return config.Fit{}, nil, err
	}

	job := &fit.Job{
		Spectrum: spec,
		Settings: f.Settings,
		Params:   f.Params,
	}
	return f, job, nil
}
