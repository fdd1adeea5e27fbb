package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-pals/pals/fit"
	"github.com/cwbudde/algo-pals/pals/param"
	"github.com/cwbudde/algo-pals/pals/residual"
)

// Fit is a mapped fit description.
type Fit struct {
	Path         string
	SpectrumPath string // resolved against the directory of Path
	Settings     fit.Settings
	MaxRuns      int
	Params       *param.Set
}

// MapFit validates dto and converts it into a parameter set and settings.
func MapFit(path string, dto YAMLFit) (Fit, error) {
	if dto.Resolution <= 0 {
		return Fit{}, invalidField(path, "resolution", "channel resolution must be positive")
	}
	if dto.ROI.Stop <= dto.ROI.Start {
		return Fit{}, invalidField(path, "roi", fmt.Sprintf("stop %d must be after start %d", dto.ROI.Stop, dto.ROI.Start))
	}
	if len(dto.Source)+len(dto.Sample) == 0 {
		return Fit{}, invalidField(path, "sample", "at least one source or sample component is required")
	}
	if len(dto.IRF) == 0 {
		return Fit{}, invalidField(path, "irf", "at least one IRF component is required")
	}
	if dto.MaxRuns < 0 {
		return Fit{}, invalidField(path, "max_runs", "must not be negative")
	}

	weighting, err := residual.ParseWeighting(strings.TrimSpace(dto.Weighting))
	if err != nil {
		return Fit{}, invalidField(path, "weighting", err.Error())
	}

	set := param.NewSet()

	groups := []struct {
		field  string
		prefix string
		decays []YAMLDecay
		group  *param.Group
	}{
		{"source", "s", dto.Source, &set.Source},
		{"sample", "t", dto.Sample, &set.Sample},
	}
	for _, g := range groups {
		for i, d := range g.decays {
			field := fmt.Sprintf("%s[%d]", g.field, i)
			tau, err := mapParam(path, field+".tau", d.Tau, fmt.Sprintf("%s%d", g.prefix, i+1))
			if err != nil {
				return Fit{}, err
			}
			in, err := mapParam(path, field+".intensity", d.Intensity, fmt.Sprintf("I%s%d", g.prefix, i+1))
			if err != nil {
				return Fit{}, err
			}
			g.group.AddDecay(tau, in)
		}
	}

	for i, k := range dto.IRF {
		field := fmt.Sprintf("irf[%d]", i)
		fwhm, err := mapParam(path, field+".fwhm", k.FWHM, fmt.Sprintf("fwhm%d", i+1))
		if err != nil {
			return Fit{}, err
		}
		mu, err := mapParam(path, field+".mu", k.Mu, fmt.Sprintf("mu%d", i+1))
		if err != nil {
			return Fit{}, err
		}
		in, err := mapParam(path, field+".intensity", k.Intensity, fmt.Sprintf("Ig%d", i+1))
		if err != nil {
			return Fit{}, err
		}
		set.IRF.AddGaussian(fwhm, mu, in)
	}

	if dto.Background != nil {
		bkg, err := mapParam(path, "background", *dto.Background, "B")
		if err != nil {
			return Fit{}, err
		}
		set.Background.Params[0] = bkg
	}

	if err := param.Validate(set); err != nil {
		return Fit{}, invalidField(path, "parameters", err.Error())
	}

	out := Fit{
		Path: path,
		Settings: fit.Settings{
			StartChannel:      dto.ROI.Start,
			StopChannel:       dto.ROI.Stop,
			ChannelResolution: dto.Resolution,
			MaxIterations:     dto.MaxIterations,
			Weighting:         weighting,
		},
		MaxRuns: dto.MaxRuns,
		Params:  set,
	}

	if s := strings.TrimSpace(dto.Spectrum); s != "" {
		if !filepath.IsAbs(s) {
			s = filepath.Join(filepath.Dir(path), s)
		}
		out.SpectrumPath = s
	}

	return out, nil
}

func mapParam(path, field string, y YAMLParam, alias string) (param.Parameter, error) {
	if y.Start == nil {
		return param.Parameter{}, invalidField(path, field+".start", "start value is required")
	}

	p := param.Value(*y.Start)
	p.Fixed = y.Fixed

	if y.Lower != nil {
		p = p.WithLower(*y.Lower)
	}
	if y.Upper != nil {
		p = p.WithUpper(*y.Upper)
	}
	if p.HasLower && p.HasUpper && p.Lower > p.Upper {
		return param.Parameter{}, invalidField(path, field, fmt.Sprintf("lower %g exceeds upper %g", p.Lower, p.Upper))
	}

	name := strings.TrimSpace(y.Name)
	if name == "" {
		name = field
	}
	if a := strings.TrimSpace(y.Alias); a != "" {
		alias = a
	}

	return p.Named(name, alias), nil
}

// Export converts a fitted description back to its YAML form, using the
// fitted values of every free parameter as the new start values.
func Export(f Fit) YAMLFit {
	dto := YAMLFit{
		ROI:           YAMLROI{Start: f.Settings.StartChannel, Stop: f.Settings.StopChannel},
		Resolution:    f.Settings.ChannelResolution,
		MaxIterations: f.Settings.MaxIterations,
		MaxRuns:       f.MaxRuns,
		Weighting:     f.Settings.Weighting.String(),
	}

	if f.SpectrumPath != "" {
		dto.Spectrum = relativeTo(filepath.Dir(f.Path), f.SpectrumPath)
	}

	for i := 0; i+1 < len(f.Params.Source.Params); i += 2 {
		p := f.Params.Source.Params
		dto.Source = append(dto.Source, YAMLDecay{Tau: exportParam(p[i]), Intensity: exportParam(p[i+1])})
	}
	for i := 0; i+1 < len(f.Params.Sample.Params); i += 2 {
		p := f.Params.Sample.Params
		dto.Sample = append(dto.Sample, YAMLDecay{Tau: exportParam(p[i]), Intensity: exportParam(p[i+1])})
	}
	for i := 0; i+2 < len(f.Params.IRF.Params); i += 3 {
		p := f.Params.IRF.Params
		dto.IRF = append(dto.IRF, YAMLGaussian{
			FWHM:      exportParam(p[i]),
			Mu:        exportParam(p[i+1]),
			Intensity: exportParam(p[i+2]),
		})
	}
	if len(f.Params.Background.Params) == 1 {
		b := exportParam(f.Params.Background.Params[0])
		dto.Background = &b
	}

	return dto
}

func exportParam(p param.Parameter) YAMLParam {
	start := p.Start
	if !p.Fixed {
		start = p.Fit
	}

	y := YAMLParam{Name: p.Name, Alias: p.Alias, Start: &start, Fixed: p.Fixed}
	if p.HasLower {
		lo := p.Lower
		y.Lower = &lo
	}
	if p.HasUpper {
		hi := p.Upper
		y.Upper = &hi
	}
	return y
}

// relativeTo returns target relative to dir, or target unchanged when no
// relative path exists.
func relativeTo(dir, target string) string {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return target
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return absTarget
	}
	return rel
}
