package diag

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Line
	}{
		{
			name: "compile warning with flag",
			raw:  "/src/Foo.m:12:4: warning: unused variable 'x' [-Wunused-variable]",
			want: Line{
				Kind:     KindCompile,
				FilePath: "/src/Foo.m",
				FileName: "Foo.m",
				Location: "12:4",
				Message:  "unused variable 'x'",
				Flag:     "-Wunused-variable",
			},
		},
		{
			name: "compile warning without flag",
			raw:  "/Users/dev/App/View Controller.swift:88:17: warning: will never be executed",
			want: Line{
				Kind:     KindCompile,
				FilePath: "/Users/dev/App/View Controller.swift",
				FileName: "View Controller.swift",
				Location: "88:17",
				Message:  "will never be executed",
			},
		},
		{
			name: "brackets inside message are not a flag",
			raw:  "/a/b.c:1:2: warning: array index [3] is past the end",
			want: Line{
				Kind:     KindCompile,
				FilePath: "/a/b.c",
				FileName: "b.c",
				Location: "1:2",
				Message:  "array index [3] is past the end",
			},
		},
		{
			name: "linker warning",
			raw:  "ld: warning: duplicate symbol '_foo'",
			want: Line{Kind: KindLinker, Message: "ld: warning: duplicate symbol '_foo'"},
		},
		{
			name: "generic warning",
			raw:  "Foo.m: warning: no newline at end of file",
			want: Line{Kind: KindGeneric, Message: "warning: no newline at end of file"},
		},
		{
			name: "indented linker text falls through to generic",
			raw:  "  ld: warning: object file built for newer iOS",
			want: Line{Kind: KindGeneric, Message: "warning: object file built for newer iOS"},
		},
		{
			name: "no location falls through to generic",
			raw:  "/src/Foo.m: warning: something",
			want: Line{Kind: KindGeneric, Message: "warning: something"},
		},
		{
			name: "source excerpt is unparsed",
			raw:  "    int x = 0;",
			want: Line{Kind: KindUnparsed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want.Raw = tt.raw
			got := Classify(tt.raw)
			if got != tt.want {
				t.Errorf("Classify(%q)\n got  %+v\n want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClassify_CompileWinsOverLooserPatterns(t *testing.T) {
	raw := "/src/ld.m:3:1: warning: ld: warning: nested text [-Wfoo]"
	got := Classify(raw)
	if !got.IsStructured() {
		t.Fatalf("Kind = %s, want compile", got.Kind)
	}
	if got.IsUnparsed() {
		t.Error("structured line must not be unparsed")
	}
	if got.Message != "ld: warning: nested text" || got.Flag != "-Wfoo" {
		t.Errorf("got %+v", got)
	}
}

func TestLine_String(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{
			"/src/Foo.m:12:4: warning: unused variable 'x' [-Wunused-variable]",
			"Foo.m:12:4: warning: unused variable 'x' [-Wunused-variable]",
		},
		{"/src/Foo.m:1:1: warning: plain", "Foo.m:1:1: warning: plain"},
		{"ld: warning: duplicate symbol '_foo'", "ld: warning: duplicate symbol '_foo'"},
		{"note: warning: generic", "warning: generic"},
		{"   ^~~~  ", "^~~~"},
	}
	for _, tt := range tests {
		if got := Classify(tt.raw).String(); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("classify is a pure function of raw text", prop.ForAll(
		func(dir, file, msg string, line, col uint16) bool {
			raws := []string{
				dir + "/" + file + ":" + itoa(line) + ":" + itoa(col) + ": warning: " + msg,
				"ld: warning: " + msg,
				msg,
			}
			for _, raw := range raws {
				if Classify(raw) != Classify(raw) {
					return false
				}
				if Classify(raw).Raw != raw {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
		gen.AlphaString(),
		gen.AnyString(),
		gen.UInt16(),
		gen.UInt16(),
	))

	properties.TestingRun(t)
}

func itoa(n uint16) string {
	if n == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
