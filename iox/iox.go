// Package iox provides I/O helpers for resource cleanup and bounded reads.
package iox

import (
	"errors"
	"io"
)

// ErrTooLarge is returned by ReadAllLimit when the input exceeds the limit.
var ErrTooLarge = errors.New("input exceeds size limit")

// DiscardClose closes c and discards the error.
// Use in defer statements where close errors are unactionable:
//
//	defer iox.DiscardClose(f)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc returns a cleanup function that closes c, for t.Cleanup:
//
//	t.Cleanup(iox.CloseFunc(client))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}

// ReadAllLimit reads r to EOF. It fails with ErrTooLarge instead of
// buffering more than limit bytes.
func ReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
