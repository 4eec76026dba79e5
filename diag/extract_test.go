package diag

import (
	"reflect"
	"testing"

	"github.com/pithecene-io/warncheck/slf"
)

func TestExtract(t *testing.T) {
	tokens := []slf.Token{
		{Kind: slf.KindClassName, Content: "IDEActivityLogMessage warning:"},
		{Kind: slf.KindString, Content: "Build succeeded"},
		{Kind: slf.KindString, Content: "/a/A.m:1:1: warning: first\n  code\n"},
		{Kind: slf.KindInteger, Content: "3"},
		{Kind: slf.KindString, Content: "ld: warning: second"},
	}

	got := Extract(tokens)
	want := []string{"/a/A.m:1:1: warning: first", "  code", "ld: warning: second"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtract_NoWarnings(t *testing.T) {
	tokens := []slf.Token{
		{Kind: slf.KindString, Content: "Compile Foo.m"},
		{Kind: slf.KindNilList},
	}
	if got := Extract(tokens); len(got) != 0 {
		t.Errorf("Extract = %q, want none", got)
	}
}

func TestLines(t *testing.T) {
	tokens := []slf.Token{
		{Kind: slf.KindString, Content: "/src/Foo.m:12:4: warning: unused variable 'x' [-Wunused-variable]\n    int x;"},
	}

	lines := Lines(tokens)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Flag != "-Wunused-variable" || lines[0].FileName != "Foo.m" {
		t.Errorf("lines[0] = %+v", lines[0])
	}
	if !lines[1].IsUnparsed() || lines[1].Raw != "    int x;" {
		t.Errorf("lines[1] = %+v", lines[1])
	}
}
