package slf

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrHeaderWritten is returned by WriteHeader when called twice.
var ErrHeaderWritten = errors.New("slf: header already written")

// Encoder writes tokens as an uncompressed container stream.
// It is the inverse of Decoder, except that String payloads keep any
// carriage returns as written; the decoder turns them into newlines.
type Encoder struct {
	w             io.Writer
	headerWritten bool
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteHeader writes the Magic marker.
func (e *Encoder) WriteHeader() error {
	if e.headerWritten {
		return ErrHeaderWritten
	}
	if _, err := io.WriteString(e.w, Magic); err != nil {
		return fmt.Errorf("slf: write header: %w", err)
	}
	e.headerWritten = true
	return nil
}

// WriteToken writes a single entry, writing the header first if needed.
func (e *Encoder) WriteToken(tok Token) error {
	if !e.headerWritten {
		if err := e.WriteHeader(); err != nil {
			return err
		}
	}

	entry, err := encodeEntry(tok)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(e.w, entry); err != nil {
		return fmt.Errorf("slf: write %s token: %w", tok.Kind, err)
	}
	return nil
}

// Encode writes the header followed by every token.
func (e *Encoder) Encode(tokens []Token) error {
	if !e.headerWritten {
		if err := e.WriteHeader(); err != nil {
			return err
		}
	}
	for _, tok := range tokens {
		if err := e.WriteToken(tok); err != nil {
			return err
		}
	}
	return nil
}

func encodeEntry(tok Token) (string, error) {
	tag := tok.Kind.Tag()
	if tag == 0 {
		return "", fmt.Errorf("slf: cannot encode %s", tok.Kind)
	}

	switch {
	case tok.Kind == KindNilList:
		return string(tag), nil
	case tok.Kind.hasLengthPayload():
		return strconv.Itoa(len(tok.Content)) + string(tag) + tok.Content, nil
	case tok.Kind == KindDouble:
		if tok.Content == "" || !isNumeralText(tok.Content) {
			return "", fmt.Errorf("slf: invalid double numeral %q", tok.Content)
		}
		return tok.Content + string(tag), nil
	default:
		if !isDecimal([]byte(tok.Content)) {
			return "", fmt.Errorf("slf: invalid %s numeral %q", tok.Kind, tok.Content)
		}
		return tok.Content + string(tag), nil
	}
}

func isNumeralText(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNumeralByte(s[i]) {
			return false
		}
	}
	return true
}
