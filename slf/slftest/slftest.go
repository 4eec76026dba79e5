// Package slftest builds container logs for tests.
package slftest

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/pithecene-io/warncheck/slf"
)

// Tokens wraps diagnostic texts in the token layout of a build log section:
// a class name, a section counter, then one String token per text.
func Tokens(texts ...string) []slf.Token {
	tokens := []slf.Token{
		{Kind: slf.KindClassName, Content: "IDEActivityLogSection"},
		{Kind: slf.KindInteger, Content: strconv.Itoa(len(texts))},
		{Kind: slf.KindString, Content: "Build target App"},
	}
	for _, text := range texts {
		tokens = append(tokens,
			slf.Token{Kind: slf.KindClassName, Content: "IDEActivityLogMessage"},
			slf.Token{Kind: slf.KindString, Content: text},
		)
	}
	return append(tokens, slf.Token{Kind: slf.KindNilList})
}

// Log returns a gzip-compressed container holding texts.
func Log(tb testing.TB, texts ...string) []byte {
	tb.Helper()
	var buf bytes.Buffer
	if err := slf.WriteLog(&buf, Tokens(texts...)); err != nil {
		tb.Fatalf("slftest: write log: %v", err)
	}
	return buf.Bytes()
}

// Gzip compresses raw bytes without validating them as a container.
func Gzip(tb testing.TB, raw []byte) []byte {
	tb.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		tb.Fatalf("slftest: gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("slftest: gzip close: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes data to dir/rel, creating parent directories, and
// returns the full path.
func WriteFile(tb testing.TB, dir, rel string, data []byte) string {
	tb.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("slftest: mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("slftest: write %s: %v", rel, err)
	}
	return path
}

// BuildDir creates a build directory whose Logs/Issues holds one log per
// entry of logs, named 0.xcactivitylog, 1.xcactivitylog and so on. Each
// entry is a newline-joined list of diagnostic texts.
func BuildDir(tb testing.TB, logs ...[]string) string {
	tb.Helper()
	dir := tb.TempDir()
	for i, texts := range logs {
		WriteFile(tb, dir, "Logs/Issues/"+strconv.Itoa(i)+".xcactivitylog", Log(tb, strings.Join(texts, "\n")))
	}
	return dir
}
