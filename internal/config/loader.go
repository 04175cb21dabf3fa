package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds optional settings for the panel. Zero values mean
// "unspecified" and are replaced by flag values or defaults in cmd.
type Config struct {
	ServerURL    string `json:"server_url" yaml:"server_url" toml:"server_url"`
	PollInterval int    `json:"poll_interval_seconds" yaml:"poll_interval_seconds" toml:"poll_interval_seconds"`
	LogFile      string `json:"log_file" yaml:"log_file" toml:"log_file"`
	PrefsFile    string `json:"prefs_file" yaml:"prefs_file" toml:"prefs_file"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
