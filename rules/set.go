package rules

import (
	"fmt"

	"github.com/pithecene-io/warncheck/diag"
)

// Set is an immutable rule configuration for one run.
type Set struct {
	inclusion []*Rule
	exclusion []*Rule
	earlyExit bool
}

// NewSet builds a Set from specs. An empty inclusion list means a single
// All rule. The first invalid spec fails the whole set.
func NewSet(inclusion, exclusion []Spec, earlyExit bool) (*Set, error) {
	incl, err := buildRules("rules", inclusion)
	if err != nil {
		return nil, err
	}
	if len(incl) == 0 {
		incl = []*Rule{All()}
	}
	excl, err := buildRules("exclusive_rules", exclusion)
	if err != nil {
		return nil, err
	}
	return &Set{inclusion: incl, exclusion: excl, earlyExit: earlyExit}, nil
}

// Default returns the set used when nothing is configured: every warning
// fails the build, and all of them are reported.
func Default() *Set {
	return &Set{inclusion: []*Rule{All()}}
}

func buildRules(field string, specs []Spec) ([]*Rule, error) {
	built := make([]*Rule, 0, len(specs))
	for i, spec := range specs {
		r, err := New(spec.Type, spec.Content)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		built = append(built, r)
	}
	return built, nil
}

// EarlyExit reports whether evaluation stops at the first hit.
func (s *Set) EarlyExit() bool {
	return s.earlyExit
}

// WithEarlyExit returns a copy of the set with early exit set to v.
func (s *Set) WithEarlyExit(v bool) *Set {
	cp := *s
	cp.earlyExit = v
	return &cp
}

// Inclusion returns the inclusion rules in evaluation order.
func (s *Set) Inclusion() []*Rule {
	return append([]*Rule(nil), s.inclusion...)
}

// Exclusion returns the exclusion rules in evaluation order.
func (s *Set) Exclusion() []*Rule {
	return append([]*Rule(nil), s.exclusion...)
}

// Evaluate returns the lines of one log that fail the build.
//
// Inclusion rules are walked in order, each over every line in order, and
// each hit is appended; duplicates across rules are kept. With early exit the
// walk stops at the first hit. The accumulated lines are then filtered by the
// exclusion rules, so an early-exit result may be empty even though a rule hit.
func (s *Set) Evaluate(lines []diag.Line) []diag.Line {
	var matched []diag.Line
	for _, rule := range s.inclusion {
		for _, line := range lines {
			if !rule.Hit(line) {
				continue
			}
			matched = append(matched, line)
			if s.earlyExit {
				return s.exclude(matched)
			}
		}
	}
	return s.exclude(matched)
}

// Excluded reports whether any exclusion rule hits line.
// Every exclusion rule is evaluated.
func (s *Set) Excluded(line diag.Line) bool {
	excluded := false
	for _, rule := range s.exclusion {
		if rule.Hit(line) {
			excluded = true
		}
	}
	return excluded
}

func (s *Set) exclude(matched []diag.Line) []diag.Line {
	if len(s.exclusion) == 0 {
		return matched
	}
	var kept []diag.Line
	for _, line := range matched {
		if !s.Excluded(line) {
			kept = append(kept, line)
		}
	}
	return kept
}
