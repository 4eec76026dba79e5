// Package discover locates container build logs under a build directory.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns are searched when no patterns are configured.
var DefaultPatterns = []string{
	"Logs/Issues/*.xcactivitylog",
	"Logs/Build/*.xcactivitylog",
}

// ErrNotDirectory is returned when the build path is not a directory.
var ErrNotDirectory = errors.New("build path is not a directory")

// Find resolves patterns relative to buildPath and returns matching files.
//
// Matches are sorted within each pattern and concatenated in pattern order;
// a file matched by several patterns appears once, at its first position.
// Patterns may use ** for recursive matching. Absolute patterns are used
// as is. No matches yields an empty slice.
func Find(buildPath string, patterns []string) ([]string, error) {
	info, err := os.Stat(buildPath)
	if err != nil {
		return nil, fmt.Errorf("build path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", buildPath, ErrNotDirectory)
	}
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	seen := make(map[string]bool)
	found := []string{}
	for _, pattern := range patterns {
		matches, err := glob(buildPath, pattern)
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			found = append(found, m)
		}
	}
	return found, nil
}

// glob matches one pattern. Relative patterns are matched inside buildPath
// through an fs.FS so metacharacters in the build path itself are literal.
func glob(buildPath, pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid log pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		return matches, nil
	}

	slashed := filepath.ToSlash(filepath.Clean(pattern))
	if !doublestar.ValidatePattern(slashed) {
		return nil, fmt.Errorf("invalid log pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	matches, err := doublestar.Glob(os.DirFS(buildPath), slashed, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	for i, m := range matches {
		matches[i] = filepath.Join(buildPath, filepath.FromSlash(m))
	}
	return matches, nil
}
