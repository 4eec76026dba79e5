// Package diag turns container tokens into classified warning lines.
//
// Extraction is a cheap recall-favouring filter: every String token that
// mentions "warning:" is split into lines. Classification does the precise
// work and is a pure function of the line text.
package diag

import (
	"fmt"
	"strings"
)

// Kind records which pattern classified a line.
type Kind string

const (
	// KindCompile is a compiler warning with file, location and optional flag.
	KindCompile Kind = "compile"
	// KindLinker is an `ld: warning:` line.
	KindLinker Kind = "linker"
	// KindGeneric is any other line containing `warning:`.
	KindGeneric Kind = "generic"
	// KindUnparsed matched no pattern; only Raw is meaningful.
	KindUnparsed Kind = "unparsed"
)

// Line is one classified diagnostic line. Values are immutable once built
// by Classify.
type Line struct {
	Raw      string `json:"raw" msgpack:"raw"`
	Kind     Kind   `json:"kind" msgpack:"kind"`
	FilePath string `json:"file_path,omitempty" msgpack:"file_path,omitempty"`
	FileName string `json:"file_name,omitempty" msgpack:"file_name,omitempty"`
	Location string `json:"location,omitempty" msgpack:"location,omitempty"`
	Message  string `json:"message,omitempty" msgpack:"message,omitempty"`
	Flag     string `json:"flag,omitempty" msgpack:"flag,omitempty"`
}

// IsStructured reports whether the compile-warning pattern matched.
func (l Line) IsStructured() bool {
	return l.Kind == KindCompile
}

// IsUnparsed reports whether no pattern matched.
func (l Line) IsUnparsed() bool {
	return l.Kind == KindUnparsed
}

// String formats the line for reports.
// Structured lines are rebuilt as `file:line:col: warning: message [flag]`,
// linker and generic lines yield their message, unparsed lines their raw text.
func (l Line) String() string {
	switch l.Kind {
	case KindCompile:
		s := fmt.Sprintf("%s:%s: warning: %s", l.FileName, l.Location, l.Message)
		if l.Flag != "" {
			s += " [" + l.Flag + "]"
		}
		return s
	case KindLinker, KindGeneric:
		return l.Message
	default:
		return strings.TrimSpace(l.Raw)
	}
}
