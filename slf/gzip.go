package slf

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Decompress opens the gzip layer of a container log.
// An input that is not gzip yields a *FormatError of kind FormatErrorCompression.
func Decompress(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, &FormatError{
			Kind: FormatErrorCompression,
			Msg:  "not a gzip stream",
			Err:  err,
		}
	}
	return zr, nil
}

// ReadLog decompresses and tokenizes a complete container log.
func ReadLog(r io.Reader) ([]Token, error) {
	zr, err := Decompress(r)
	if err != nil {
		return nil, err
	}
	tokens, err := Tokenize(zr)
	if closeErr := zr.Close(); err == nil && closeErr != nil {
		return nil, &FormatError{Kind: FormatErrorCompression, Msg: "failed to close gzip stream", Err: closeErr}
	}
	return tokens, err
}

// WriteLog gzips and encodes tokens as a complete container log.
func WriteLog(w io.Writer, tokens []Token) error {
	zw := gzip.NewWriter(w)
	if err := NewEncoder(zw).Encode(tokens); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("slf: close gzip writer: %w", err)
	}
	return nil
}
