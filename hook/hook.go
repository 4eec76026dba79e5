// Package hook installs and evaluates the git pre-commit gate.
//
// The installed hook runs `warncheck gate`, which reads the result file
// written by the last check and blocks the commit while it reports
// warnings.
package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pithecene-io/warncheck/scan"
)

// ErrHookExists is returned when a different pre-commit hook is installed.
var ErrHookExists = errors.New("a different pre-commit hook already exists")

// hookRelPath is the hook location relative to the repository root.
const hookRelPath = ".git/hooks/pre-commit"

// Script returns the pre-commit hook script.
func Script() string {
	return `#!/bin/sh
# Installed by warncheck. Blocks the commit while the last check found
# build warnings. Rebuild the project to refresh the result.
exec warncheck gate ` + scan.DefaultResultPath + "\n"
}

// RepoRoot returns the top-level directory of the git repository
// containing path.
func RepoRoot(ctx context.Context, path string) (string, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", "-C", path, "rev-parse", "--show-toplevel")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git rev-parse in %s: %s: %w", path, msg, err)
		}
		return "", fmt.Errorf("git rev-parse in %s: %w", path, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Install writes the hook into the repository containing path.
//
// It returns the hook path and whether a file was written. An identical
// hook is left untouched; any other existing hook yields ErrHookExists.
func Install(ctx context.Context, path string) (string, bool, error) {
	root, err := RepoRoot(ctx, path)
	if err != nil {
		return "", false, err
	}
	hookPath := filepath.Join(root, filepath.FromSlash(hookRelPath))
	written, err := installAt(hookPath)
	return hookPath, written, err
}

func installAt(hookPath string) (bool, error) {
	existing, err := os.ReadFile(hookPath)
	switch {
	case err == nil:
		if string(existing) == Script() {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", hookPath, ErrHookExists)
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("read existing hook: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
		return false, fmt.Errorf("create hooks directory: %w", err)
	}
	if err := os.WriteFile(hookPath, []byte(Script()), 0o755); err != nil {
		return false, fmt.Errorf("write hook: %w", err)
	}
	// WriteFile does not change the mode of an existing file and is subject
	// to the umask.
	info, err := os.Stat(hookPath)
	if err != nil {
		return false, fmt.Errorf("stat hook: %w", err)
	}
	if err := os.Chmod(hookPath, info.Mode()|0o111); err != nil {
		return false, fmt.Errorf("make hook executable: %w", err)
	}
	return true, nil
}
