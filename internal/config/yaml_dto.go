package config

// YAMLFit is the on-disk fit description.
type YAMLFit struct {
	Spectrum      string  `yaml:"spectrum,omitempty"`
	ROI           YAMLROI `yaml:"roi"`
	Resolution    float64 `yaml:"resolution"`
	MaxIterations int     `yaml:"max_iterations,omitempty"`
	MaxRuns       int     `yaml:"max_runs,omitempty"`
	Weighting     string  `yaml:"weighting,omitempty"`

	Source     []YAMLDecay    `yaml:"source,omitempty"`
	Sample     []YAMLDecay    `yaml:"sample,omitempty"`
	IRF        []YAMLGaussian `yaml:"irf"`
	Background *YAMLParam     `yaml:"background,omitempty"`
}

type YAMLROI struct {
	Start int `yaml:"start"`
	Stop  int `yaml:"stop"`
}

type YAMLDecay struct {
	Tau       YAMLParam `yaml:"tau"`
	Intensity YAMLParam `yaml:"intensity"`
}

type YAMLGaussian struct {
	FWHM      YAMLParam `yaml:"fwhm"`
	Mu        YAMLParam `yaml:"mu"`
	Intensity YAMLParam `yaml:"intensity"`
}

type YAMLParam struct {
	Name  string   `yaml:"name,omitempty"`
	Alias string   `yaml:"alias,omitempty"`
	Start *float64 `yaml:"start"`
	Lower *float64 `yaml:"lower,omitempty"`
	Upper *float64 `yaml:"upper,omitempty"`
	Fixed bool     `yaml:"fixed,omitempty"`
}
