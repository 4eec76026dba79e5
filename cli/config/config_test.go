package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pithecene-io/warncheck/rules"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func assertEqual[T comparable](t *testing.T, field string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", field, got, want)
	}
}

func TestLoad_FullJSON(t *testing.T) {
	t.Setenv("WC_HOOK_URL", "https://hooks.example.com/ci")
	path := writeTemp(t, "config.json", `{
  "rules": [
    {"type": "flag", "content": "-Wunused-variable"},
    {"type": "regex", "content": "deprecated"}
  ],
  "exclusive_rules": [
    {"type": "regex", "content": "^/src/ThirdParty/"}
  ],
  "show_non_pass_warning": "first",
  "logs": {"patterns": ["Logs/Issues/*.xcactivitylog"]},
  "parallel": 4,
  "log_level": "debug",
  "output": "out/result.json",
  "cache": {"enabled": false, "path": "/tmp/cache.msgpack"},
  "archive": {"backend": "s3", "path": "bucket/prefix", "dataset": "checks", "region": "us-east-1", "endpoint": "http://minio:9000", "s3_path_style": true},
  "adapter": {"type": "webhook", "url": "${WC_HOOK_URL}", "headers": {"Authorization": "Bearer t"}, "timeout": "15s", "retries": 2}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Rules) != 2 || cfg.Rules[0] != (rules.Spec{Type: rules.KindFlag, Content: "-Wunused-variable"}) {
		t.Errorf("rules = %+v", cfg.Rules)
	}
	if len(cfg.ExclusiveRules) != 1 || cfg.ExclusiveRules[0].Type != rules.KindRegex {
		t.Errorf("exclusive_rules = %+v", cfg.ExclusiveRules)
	}
	assertEqual(t, "show_non_pass_warning", cfg.ShowNonPassWarning, ShowFirst)
	assertEqual(t, "EarlyExit", cfg.EarlyExit(), true)
	assertEqual(t, "logs.patterns", strings.Join(cfg.Logs.Patterns, ","), "Logs/Issues/*.xcactivitylog")
	assertEqual(t, "parallel", cfg.Parallel, 4)
	assertEqual(t, "log_level", cfg.LogLevel, "debug")
	assertEqual(t, "output", cfg.Output, "out/result.json")
	assertEqual(t, "cache.enabled", cfg.Cache.IsEnabled(), false)
	assertEqual(t, "cache.path", cfg.Cache.Path, "/tmp/cache.msgpack")
	assertEqual(t, "archive.backend", cfg.Archive.Backend, "s3")
	assertEqual(t, "archive.path", cfg.Archive.Path, "bucket/prefix")
	assertEqual(t, "archive.dataset", cfg.Archive.Dataset, "checks")
	assertEqual(t, "archive.region", cfg.Archive.Region, "us-east-1")
	assertEqual(t, "archive.endpoint", cfg.Archive.Endpoint, "http://minio:9000")
	assertEqual(t, "archive.s3_path_style", cfg.Archive.S3PathStyle, true)
	assertEqual(t, "adapter.type", cfg.Adapter.Type, "webhook")
	assertEqual(t, "adapter.url", cfg.Adapter.URL, "https://hooks.example.com/ci")
	assertEqual(t, "adapter.headers", cfg.Adapter.Headers["Authorization"], "Bearer t")
	assertEqual(t, "adapter.timeout", cfg.Adapter.Timeout.Duration, 15*time.Second)
	if cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 2 {
		t.Errorf("adapter.retries = %v", cfg.Adapter.Retries)
	}

	set, err := cfg.RuleSet()
	if err != nil {
		t.Fatalf("RuleSet: %v", err)
	}
	if !set.EarlyExit() || len(set.Inclusion()) != 2 || len(set.Exclusion()) != 1 {
		t.Errorf("rule set = %+v", set)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", `rules:
  - type: flag
    content: -Wshadow
show_non_pass_warning: all
adapter:
  type: redis
  url: redis://${WC_REDIS_HOST:-localhost}:6379
  channel: ci:warnings
  timeout: 5s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertEqual(t, "rules[0].content", cfg.Rules[0].Content, "-Wshadow")
	assertEqual(t, "EarlyExit", cfg.EarlyExit(), false)
	assertEqual(t, "adapter.url", cfg.Adapter.URL, "redis://localhost:6379")
	assertEqual(t, "adapter.channel", cfg.Adapter.Channel, "ci:warnings")
	assertEqual(t, "adapter.timeout", cfg.Adapter.Timeout.Duration, 5*time.Second)
	assertEqual(t, "cache.enabled", cfg.Cache.IsEnabled(), true)
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, "config.json", "  \n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertEqual(t, "show_non_pass_warning", cfg.ShowNonPassWarning, ShowAll)
	set, err := cfg.RuleSet()
	if err != nil {
		t.Fatalf("RuleSet: %v", err)
	}
	if incl := set.Inclusion(); len(incl) != 1 || incl[0].Kind() != rules.KindAll {
		t.Errorf("default inclusion = %v", incl)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantMsg string
	}{
		{"unparsable JSON", "config.json", `{"rules": [`, "JSON config"},
		{"unparsable YAML", "config.yaml", "rules: [unterminated", "YAML config"},
		{"invalid regex", "config.json", `{"rules": [{"type": "regex", "content": "("}]}`, "rules[0]"},
		{"invalid exclusive regex", "config.json", `{"exclusive_rules": [{"type": "regex", "content": "[a-"}]}`, "exclusive_rules[0]"},
		{"unknown rule type", "config.json", `{"rules": [{"type": "glob", "content": "*"}]}`, "rule type"},
		{"bad show mode", "config.json", `{"show_non_pass_warning": "some"}`, "show_non_pass_warning"},
		{"negative parallel", "config.json", `{"parallel": -1}`, "parallel"},
		{"bad archive backend", "config.json", `{"archive": {"backend": "gcs"}}`, "archive.backend"},
		{"bad adapter type", "config.json", `{"adapter": {"type": "kafka", "url": "x"}}`, "adapter.type"},
		{"adapter without url", "config.json", `{"adapter": {"type": "webhook"}}`, "adapter.url"},
		{"negative retries", "config.json", `{"adapter": {"type": "webhook", "url": "x", "retries": -1}}`, "adapter.retries"},
		{"bad duration", "config.json", `{"adapter": {"timeout": "soon"}}`, "invalid duration"},
		{"numeric duration", "config.json", `{"adapter": {"timeout": 10}}`, "duration must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !rules.IsConfigError(err) {
				t.Errorf("error should be a ConfigError: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !rules.IsConfigError(err) || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v", err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	cfg, path, err := Resolve(dir, "")
	if err != nil || path != "" {
		t.Fatalf("Resolve without files: path=%q err=%v", path, err)
	}
	assertEqual(t, "default mode", cfg.ShowNonPassWarning, ShowAll)

	yamlPath := filepath.Join(dir, ".warning_checker", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(yamlPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlPath, []byte("parallel: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, path, err = Resolve(dir, "")
	if err != nil {
		t.Fatalf("Resolve yaml: %v", err)
	}
	assertEqual(t, "path", path, yamlPath)
	assertEqual(t, "parallel", cfg.Parallel, 2)

	jsonPath := filepath.Join(dir, ".warning_checker", "config.json")
	if err := os.WriteFile(jsonPath, []byte(`{"parallel": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, path, err = Resolve(dir, "")
	if err != nil {
		t.Fatalf("Resolve json: %v", err)
	}
	assertEqual(t, "path", path, jsonPath)
	assertEqual(t, "parallel", cfg.Parallel, 3)

	explicit := writeTemp(t, "other.json", `{"parallel": 5}`)
	cfg, path, err = Resolve(dir, explicit)
	if err != nil {
		t.Fatalf("Resolve explicit: %v", err)
	}
	assertEqual(t, "path", path, explicit)
	assertEqual(t, "parallel", cfg.Parallel, 5)
}
