// Package config handles configuration loading from YAML files.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the analyzer defaults. Command-line flags override any value
// set here.
type Config struct {
	Databases []string `yaml:"databases"`
	HTMLPages []string `yaml:"html_pages"`
	TopN      int      `yaml:"top_n"`
	Bucket    string   `yaml:"bucket"` // "day" or "month"
	LogLevel  string   `yaml:"log_level"`
}

// DefaultConfigPath is the default location for the config file.
const DefaultConfigPath = "~/.config/slskd-stats/config.yaml"

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	// Expand ~ to home directory
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Defaults returns a config with default values.
func Defaults() *Config {
	return &Config{
		Databases: []string{},
		HTMLPages: []string{},
		TopN:      10,
		Bucket:    "day",
		LogLevel:  "info",
	}
}
