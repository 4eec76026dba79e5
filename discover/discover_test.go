package discover

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		p := filepath.Join(root, filepath.FromSlash(r))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestFind_DefaultPatterns(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"Logs/Issues/B.xcactivitylog",
		"Logs/Issues/A.xcactivitylog",
		"Logs/Issues/notes.txt",
		"Logs/Build/C.xcactivitylog",
		"Logs/Other/D.xcactivitylog",
	)

	got, err := Find(root, nil)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []string{
		"Logs/Issues/A.xcactivitylog",
		"Logs/Issues/B.xcactivitylog",
		"Logs/Build/C.xcactivitylog",
	}
	if !reflect.DeepEqual(rel(t, root, got), want) {
		t.Errorf("Find = %v, want %v", rel(t, root, got), want)
	}
}

func TestFind_RecursiveAndDeduplicated(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"Logs/Issues/A.xcactivitylog",
		"Logs/Build/nested/B.xcactivitylog",
	)

	got, err := Find(root, []string{"Logs/Issues/*.xcactivitylog", "**/*.xcactivitylog"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []string{
		"Logs/Issues/A.xcactivitylog",
		"Logs/Build/nested/B.xcactivitylog",
	}
	if !reflect.DeepEqual(rel(t, root, got), want) {
		t.Errorf("Find = %v, want %v", rel(t, root, got), want)
	}
}

func TestFind_DirectoriesSkipped(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Logs", "Issues", "dir.xcactivitylog"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := Find(root, nil)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Find = %v, want none", got)
	}
}

func TestFind_NoMatchesIsEmpty(t *testing.T) {
	got, err := Find(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Find = %#v, want empty non-nil slice", got)
	}
}

func TestFind_Errors(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "file")

	if _, err := Find(filepath.Join(root, "missing"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing build path: err = %v", err)
	}
	if _, err := Find(filepath.Join(root, "file"), nil); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("file build path: err = %v", err)
	}
	if _, err := Find(root, []string{"Logs/[unterminated"}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
