package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pithecene-io/warncheck/rules"
)

// DefaultPaths are tried in order when no config path is given.
var DefaultPaths = []string{
	".warning_checker/config.json",
	".warning_checker/config.yaml",
	".warning_checker/config.yml",
}

// Default returns the configuration used when no file exists: every
// warning fails and all of them are reported.
func Default() *Config {
	return &Config{ShowNonPassWarning: ShowAll}
}

// Load reads a config file, expands environment variables, and decodes
// it as JSON or YAML by extension. The result is validated. Every
// failure is a *rules.ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &rules.ConfigError{Field: "config file", Value: path, Err: errors.New("not found")}
		}
		return nil, &rules.ConfigError{Field: "config file", Value: path, Err: err}
	}

	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), cfg); err != nil {
			return nil, &rules.ConfigError{Field: "YAML config", Value: path, Err: err}
		}
	default:
		expanded := []byte(expandJSONEnv(string(data)))
		if len(bytes.TrimSpace(expanded)) > 0 {
			if err := json.Unmarshal(expanded, cfg); err != nil {
				return nil, &rules.ConfigError{Field: "JSON config", Value: path, Err: err}
			}
		}
	}
	if cfg.ShowNonPassWarning == "" {
		cfg.ShowNonPassWarning = ShowAll
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads path when set, otherwise the first existing default path
// under dir, otherwise Default(). It returns the path actually loaded.
func Resolve(dir, path string) (*Config, string, error) {
	if path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	for _, candidate := range DefaultPaths {
		full := filepath.Join(dir, candidate)
		if _, err := os.Stat(full); err == nil {
			cfg, err := Load(full)
			return cfg, full, err
		}
	}
	return Default(), "", nil
}
