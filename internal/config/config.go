// Package config loads the scanflow configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user-adjustable paths and endpoints.
type Config struct {
	// SpoolDir is where the scanning capability drops decoded payloads.
	SpoolDir string `yaml:"spool_dir"`

	// GalleryDir is scanned for the pick-from-gallery fallback.
	GalleryDir string `yaml:"gallery_dir"`

	// DataDir holds the favorites database and its key.
	DataDir string `yaml:"data_dir"`

	// ShareBaseURL prefixes product share links.
	ShareBaseURL string `yaml:"share_base_url"`

	// LogPath receives structured logs during interactive scans.
	LogPath string `yaml:"log_path"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".scanflow")

	return Config{
		SpoolDir:     filepath.Join(base, "spool"),
		GalleryDir:   filepath.Join(base, "gallery"),
		DataDir:      filepath.Join(base, "data"),
		ShareBaseURL: "https://trymirror.app",
		LogPath:      filepath.Join(base, "scanflow.log"),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".scanflow", "config.yaml")
}

// Load reads the config file at path, overlaying it on the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
