package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFit reads and maps a YAML fit description.
func LoadFit(path string) (Fit, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Fit{}, &OpError{
			Op:   "config.load_fit",
			Kind: KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLFit
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Fit{}, &OpError{
			Op:   "config.load_fit",
			Kind: KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapFit(path, dto)
}

// SaveFit writes dto as YAML to path.
func SaveFit(path string, dto YAMLFit) error {
	b, err := yaml.Marshal(dto)
	if err != nil {
		return &OpError{Op: "config.save_fit", Kind: KindInvalidConfig, Path: path, Err: err}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &OpError{Op: "config.save_fit", Kind: KindNotFound, Path: path, Err: err}
		}
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return &OpError{Op: "config.save_fit", Kind: KindNotFound, Path: path, Err: err}
	}
	return nil
}
