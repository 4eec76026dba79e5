package diag

import (
	"regexp"
	"strings"

	"github.com/pithecene-io/warncheck/slf"
)

// warningMarker is the substring every candidate line must contain.
const warningMarker = "warning:"

// Patterns are tried in this order; the first match wins.
// RE2 guarantees linear-time matching for all of them.
var (
	// <dir>/<file>:<line>:<col>: warning: <message> [<flag>]
	compilePattern = regexp.MustCompile(`^(.*/([^/]+?)):(\d+:\d+): warning: (.*?)(?:\s*\[([^\[\]]+)\])?\s*$`)
	linkerPattern  = regexp.MustCompile(`^ld: warning: .*`)
	genericPattern = regexp.MustCompile(`warning:.*`)
)

// Classify parses a raw diagnostic line. It is deterministic and has no
// side effects: equal input always yields an equal Line.
func Classify(raw string) Line {
	if m := compilePattern.FindStringSubmatch(raw); m != nil {
		return Line{
			Raw:      raw,
			Kind:     KindCompile,
			FilePath: m[1],
			FileName: m[2],
			Location: m[3],
			Message:  m[4],
			Flag:     m[5],
		}
	}
	if m := linkerPattern.FindString(raw); m != "" {
		return Line{Raw: raw, Kind: KindLinker, Message: m}
	}
	if m := genericPattern.FindString(raw); m != "" {
		return Line{Raw: raw, Kind: KindGeneric, Message: m}
	}
	return Line{Raw: raw, Kind: KindUnparsed}
}

// ClassifyAll classifies raws in order.
func ClassifyAll(raws []string) []Line {
	lines := make([]Line, 0, len(raws))
	for _, raw := range raws {
		lines = append(lines, Classify(raw))
	}
	return lines
}

// Extract selects String tokens that mention "warning:" and splits them into
// lines, preserving order within and across tokens. Empty fragments are
// dropped.
func Extract(tokens []slf.Token) []string {
	var raws []string
	for _, tok := range tokens {
		if tok.Kind != slf.KindString || !strings.Contains(tok.Content, warningMarker) {
			continue
		}
		for _, line := range strings.Split(tok.Content, "\n") {
			if line == "" {
				continue
			}
			raws = append(raws, line)
		}
	}
	return raws
}

// Lines extracts and classifies the diagnostic lines of a token stream.
func Lines(tokens []slf.Token) []Line {
	return ClassifyAll(Extract(tokens))
}
