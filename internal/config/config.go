// Package config loads the optional tunables file. The credential and timer
// JSON files are an external contract and live in adapter/jsonfile; this file
// only carries knobs with safe defaults, so its absence is not an error.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Headless runs Chrome without a visible window.
	Headless bool `yaml:"headless"`

	// DetectRetries is how many times status detection retries after
	// dismissing a "remember this device" interstitial.
	DetectRetries int `yaml:"detect_retries"`

	// ProfileDir overrides the Chrome profile directory.
	ProfileDir string `yaml:"profile_dir"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Headless:      true,
		DetectRetries: 1,
		LogLevel:      "info",
	}
}

// Load reads the YAML tunables at path. A missing file yields defaults; a
// malformed file yields defaults plus an error for the caller to log.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	if cfg.DetectRetries < 0 {
		cfg.DetectRetries = 0
	}
	return cfg, nil
}
