package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"foodscanner/imageprocessor"
	"foodscanner/scanner"
)

// Config carries the tunable settings for the scanner. Matching thresholds
// default to the protocol constants but can be adjusted per deployment.
type Config struct {
	GalleryDir string  `toml:"gallery_dir"`
	IndexPath  string  `toml:"index_path"`
	Threshold  float64 `toml:"threshold"`
	RatioTest  float64 `toml:"ratio_test"`
	MaxResults int     `toml:"max_results"`
	MaxWorkers int     `toml:"max_workers"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		GalleryDir: "labeled_images",
		IndexPath:  "gallery.db",
		Threshold:  scanner.DefaultThreshold,
		RatioTest:  imageprocessor.DefaultRatioThreshold,
		MaxResults: scanner.DefaultMaxResults,
	}
}

// Load reads settings from a TOML file, with defaults for absent fields. A
// missing file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0, 1], got %v", c.Threshold)
	}
	if c.RatioTest <= 0 || c.RatioTest >= 1 {
		return fmt.Errorf("ratio_test must be in (0, 1), got %v", c.RatioTest)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("max_results must be at least 1, got %d", c.MaxResults)
	}
	if c.MaxWorkers < 0 {
		return fmt.Errorf("max_workers cannot be negative, got %d", c.MaxWorkers)
	}
	if c.GalleryDir == "" {
		return fmt.Errorf("gallery_dir cannot be empty")
	}
	return nil
}
