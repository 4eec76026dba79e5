// Package rules decides which classified warning lines fail a build.
//
// A Set holds ordered inclusion rules, exclusion rules and the early-exit
// switch. Inclusion rules add matching lines to the result (a line matched by
// two rules is added twice); exclusion rules then remove every line that any
// of them matches.
package rules

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/pithecene-io/warncheck/diag"
)

// Kind selects how a rule matches.
type Kind string

// Rule kinds.
const (
	KindAll   Kind = "all"
	KindRegex Kind = "regex"
	KindFlag  Kind = "flag"
)

// Spec is the configuration shape of a rule.
type Spec struct {
	Type    Kind   `json:"type" yaml:"type"`
	Content string `json:"content" yaml:"content"`
}

// ConfigError reports an invalid rule or configuration value.
// It is fatal: no log is scanned with a partially valid rule set.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError returns true if err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// Rule is a single predicate over a classified line.
type Rule struct {
	kind    Kind
	content string
	pattern *regexp.Regexp
}

// New builds a rule. Regex content must compile; unknown kinds are rejected.
func New(kind Kind, content string) (*Rule, error) {
	r := &Rule{kind: kind, content: content}
	switch kind {
	case KindAll, KindFlag:
	case KindRegex:
		pattern, err := regexp.Compile(content)
		if err != nil {
			return nil, &ConfigError{Field: "regex rule", Value: content, Err: err}
		}
		r.pattern = pattern
	default:
		return nil, &ConfigError{
			Field: "rule type",
			Value: string(kind),
			Err:   errors.New("must be all, regex or flag"),
		}
	}
	return r, nil
}

// All returns the match-everything rule.
func All() *Rule {
	return &Rule{kind: KindAll}
}

// Kind returns the rule kind.
func (r *Rule) Kind() Kind {
	return r.kind
}

// Content returns the configured rule content.
func (r *Rule) Content() string {
	return r.content
}

// Hit reports whether the rule matches line.
//
// Regex rules search the raw text; flag rules compare the flag exactly, so
// they never match linker, generic or unparsed lines.
func (r *Rule) Hit(line diag.Line) bool {
	switch r.kind {
	case KindAll:
		return true
	case KindRegex:
		return r.pattern.MatchString(line.Raw)
	case KindFlag:
		return line.Flag == r.content
	default:
		return false
	}
}

// String renders the rule as kind:content.
func (r *Rule) String() string {
	if r.kind == KindAll {
		return string(KindAll)
	}
	return string(r.kind) + ":" + r.content
}
