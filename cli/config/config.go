package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pithecene-io/warncheck/rules"
)

// Values of show_non_pass_warning.
const (
	ShowAll   = "all"
	ShowFirst = "first"
)

// Config is a warncheck configuration file.
// All values are optional; CLI flags override config values.
type Config struct {
	Rules              []rules.Spec  `json:"rules" yaml:"rules"`
	ExclusiveRules     []rules.Spec  `json:"exclusive_rules" yaml:"exclusive_rules"`
	ShowNonPassWarning string        `json:"show_non_pass_warning" yaml:"show_non_pass_warning"`
	Logs               LogsConfig    `json:"logs" yaml:"logs"`
	Parallel           int           `json:"parallel" yaml:"parallel"`
	LogLevel           string        `json:"log_level" yaml:"log_level"`
	Output             string        `json:"output" yaml:"output"`
	Cache              CacheConfig   `json:"cache" yaml:"cache"`
	Archive            ArchiveConfig `json:"archive" yaml:"archive"`
	Adapter            AdapterConfig `json:"adapter" yaml:"adapter"`
}

// LogsConfig controls build-log discovery.
type LogsConfig struct {
	// Patterns are doublestar globs relative to the build path.
	Patterns []string `json:"patterns" yaml:"patterns"`
}

// CacheConfig controls the classified-line cache.
type CacheConfig struct {
	// Enabled defaults to true.
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Path    string `json:"path" yaml:"path"`
}

// IsEnabled reports whether the cache is on.
func (c CacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ArchiveConfig holds report-history storage settings.
type ArchiveConfig struct {
	Backend     string `json:"backend" yaml:"backend"` // fs or s3
	Path        string `json:"path" yaml:"path"`       // directory, or bucket/prefix for s3
	Dataset     string `json:"dataset" yaml:"dataset"`
	Region      string `json:"region" yaml:"region"`
	Endpoint    string `json:"endpoint" yaml:"endpoint"`
	S3PathStyle bool   `json:"s3_path_style" yaml:"s3_path_style"`
}

// AdapterConfig holds notification adapter settings.
type AdapterConfig struct {
	Type    string            `json:"type" yaml:"type"` // webhook or redis
	URL     string            `json:"url" yaml:"url"`
	Channel string            `json:"channel,omitempty" yaml:"channel,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Timeout Duration          `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Retries *int              `json:"retries,omitempty" yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.parse(s)
}

// UnmarshalJSON parses a JSON duration string like "10s".
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.parse(s)
}

// MarshalJSON renders the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) parse(s string) error {
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// EarlyExit reports whether show_non_pass_warning asks for the first hit only.
func (c *Config) EarlyExit() bool {
	return c.ShowNonPassWarning == ShowFirst
}

// RuleSet builds the rule set. Any invalid rule fails the whole set.
func (c *Config) RuleSet() (*rules.Set, error) {
	return rules.NewSet(c.Rules, c.ExclusiveRules, c.EarlyExit())
}

// Validate checks enumerated values and rules.
// Every failure is a *rules.ConfigError.
func (c *Config) Validate() error {
	switch c.ShowNonPassWarning {
	case "", ShowAll, ShowFirst:
	default:
		return invalid("show_non_pass_warning", c.ShowNonPassWarning, "must be all or first")
	}
	if c.Parallel < 0 {
		return invalid("parallel", fmt.Sprint(c.Parallel), "must be >= 0")
	}
	switch c.Archive.Backend {
	case "", "fs", "s3":
	default:
		return invalid("archive.backend", c.Archive.Backend, "must be fs or s3")
	}
	switch c.Adapter.Type {
	case "", "webhook", "redis":
	default:
		return invalid("adapter.type", c.Adapter.Type, "must be webhook or redis")
	}
	if c.Adapter.Type != "" && c.Adapter.URL == "" {
		return invalid("adapter.url", "", "required when adapter.type is set")
	}
	if c.Adapter.Retries != nil && *c.Adapter.Retries < 0 {
		return invalid("adapter.retries", fmt.Sprint(*c.Adapter.Retries), "must be >= 0")
	}
	_, err := c.RuleSet()
	return err
}

func invalid(field, value, msg string) error {
	return &rules.ConfigError{Field: field, Value: value, Err: fmt.Errorf("%s", msg)}
}
