package slf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// FormatErrorKind classifies container decoding errors.
type FormatErrorKind int

const (
	// FormatErrorMagic indicates the payload does not start with Magic.
	FormatErrorMagic FormatErrorKind = iota
	// FormatErrorTruncated indicates the stream ended inside an entry.
	FormatErrorTruncated
	// FormatErrorTag indicates an unrecognized tag byte.
	FormatErrorTag
	// FormatErrorNumeral indicates a missing or malformed numeral.
	FormatErrorNumeral
	// FormatErrorTooLarge indicates a payload length above MaxPayloadSize.
	FormatErrorTooLarge
	// FormatErrorCompression indicates the gzip layer could not be opened.
	FormatErrorCompression
	// FormatErrorRead indicates the underlying reader failed mid-stream.
	FormatErrorRead
)

var formatErrorKindNames = map[FormatErrorKind]string{
	FormatErrorMagic:       "magic",
	FormatErrorTruncated:   "truncated",
	FormatErrorTag:         "tag",
	FormatErrorNumeral:     "numeral",
	FormatErrorTooLarge:    "too_large",
	FormatErrorCompression: "compression",
	FormatErrorRead:        "read",
}

// String returns the snake_case name of the kind.
func (k FormatErrorKind) String() string {
	if name, ok := formatErrorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("format_error(%d)", int(k))
}

// FormatError reports bytes that do not follow the container grammar.
// It is scoped to one log file.
type FormatError struct {
	Kind   FormatErrorKind
	Offset int64
	Msg    string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("slf: %s at offset %d: %v", e.Msg, e.Offset, e.Err)
	}
	return fmt.Sprintf("slf: %s at offset %d", e.Msg, e.Offset)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError returns true if err is, or wraps, a *FormatError.
func IsFormatError(err error) bool {
	var formatErr *FormatError
	return errors.As(err, &formatErr)
}

// Decoder reads tokens from an uncompressed container stream.
type Decoder struct {
	r       *bufio.Reader
	offset  int64
	started bool
	err     error
}

// NewDecoder creates a decoder reading from r.
// r must yield the decompressed payload; see Decompress for the gzip layer.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next decodes the next token.
//
// Errors:
//   - io.EOF: the stream ended cleanly between entries
//   - *FormatError: the stream is malformed; every later call returns the same error
func (d *Decoder) Next() (Token, error) {
	if d.err != nil {
		return Token{}, d.err
	}
	if !d.started {
		if err := d.readMagic(); err != nil {
			return Token{}, d.fail(err)
		}
		d.started = true
	}

	start := d.offset
	var numeral []byte
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				if len(numeral) == 0 {
					return Token{}, io.EOF
				}
				return Token{}, d.fail(&FormatError{
					Kind:   FormatErrorTruncated,
					Offset: start,
					Msg:    fmt.Sprintf("stream ended after numeral %q", numeral),
				})
			}
			return Token{}, d.fail(&FormatError{
				Kind:   FormatErrorRead,
				Offset: d.offset,
				Msg:    "failed to read entry",
				Err:    err,
			})
		}
		d.offset++

		if isNumeralByte(b) {
			numeral = append(numeral, b)
			continue
		}

		kind, ok := kindForTag(b)
		if !ok {
			return Token{}, d.fail(&FormatError{
				Kind:   FormatErrorTag,
				Offset: d.offset - 1,
				Msg:    fmt.Sprintf("unrecognized tag byte 0x%02x", b),
			})
		}

		tok, err := d.readToken(kind, numeral, start)
		if err != nil {
			return Token{}, d.fail(err)
		}
		return tok, nil
	}
}

func (d *Decoder) readMagic() error {
	var magic [len(Magic)]byte
	n, err := io.ReadFull(d.r, magic[:])
	d.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &FormatError{
				Kind: FormatErrorMagic,
				Msg:  fmt.Sprintf("stream too short for %s marker", Magic),
			}
		}
		return &FormatError{Kind: FormatErrorRead, Msg: "failed to read marker", Err: err}
	}
	if string(magic[:]) != Magic {
		return &FormatError{
			Kind: FormatErrorMagic,
			Msg:  fmt.Sprintf("expected %s marker, found %q", Magic, magic[:]),
		}
	}
	return nil
}

func (d *Decoder) readToken(kind Kind, numeral []byte, start int64) (Token, error) {
	switch {
	case kind == KindNilList:
		if len(numeral) > 0 {
			return Token{}, &FormatError{
				Kind:   FormatErrorNumeral,
				Offset: start,
				Msg:    fmt.Sprintf("nil list must not carry numeral %q", numeral),
			}
		}
		return Token{Kind: KindNilList}, nil

	case kind == KindDouble:
		if len(numeral) == 0 {
			return Token{}, missingNumeral(kind, start)
		}
		return Token{Kind: kind, Content: string(numeral)}, nil

	case kind.hasLengthPayload():
		if !isDecimal(numeral) {
			return Token{}, badNumeral(kind, numeral, start)
		}
		length, err := strconv.ParseInt(string(numeral), 10, 64)
		if err != nil {
			return Token{}, &FormatError{Kind: FormatErrorNumeral, Offset: start, Msg: "invalid payload length", Err: err}
		}
		if length > MaxPayloadSize {
			return Token{}, &FormatError{
				Kind:   FormatErrorTooLarge,
				Offset: start,
				Msg:    fmt.Sprintf("payload length %d exceeds maximum %d", length, MaxPayloadSize),
			}
		}
		payload := make([]byte, length)
		n, err := io.ReadFull(d.r, payload)
		d.offset += int64(n)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return Token{}, &FormatError{
					Kind:   FormatErrorTruncated,
					Offset: start,
					Msg:    fmt.Sprintf("%s payload declared %d bytes, got %d", kind, length, n),
				}
			}
			return Token{}, &FormatError{Kind: FormatErrorRead, Offset: d.offset, Msg: "failed to read payload", Err: err}
		}
		if kind == KindString {
			normalizeLineBreaks(payload)
		}
		return Token{Kind: kind, Content: string(payload)}, nil

	default:
		if !isDecimal(numeral) {
			return Token{}, badNumeral(kind, numeral, start)
		}
		return Token{Kind: kind, Content: string(numeral)}, nil
	}
}

// fail records err so the decoder stays failed.
func (d *Decoder) fail(err error) error {
	d.err = err
	return err
}

func missingNumeral(kind Kind, offset int64) *FormatError {
	return &FormatError{
		Kind:   FormatErrorNumeral,
		Offset: offset,
		Msg:    fmt.Sprintf("%s entry has no numeral", kind),
	}
}

func badNumeral(kind Kind, numeral []byte, offset int64) *FormatError {
	if len(numeral) == 0 {
		return missingNumeral(kind, offset)
	}
	return &FormatError{
		Kind:   FormatErrorNumeral,
		Offset: offset,
		Msg:    fmt.Sprintf("%s entry has non-decimal numeral %q", kind, numeral),
	}
}

// isNumeralByte accepts decimal digits and the lowercase hex letters that
// appear in Double numerals.
func isNumeralByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f')
}

func isDecimal(numeral []byte) bool {
	if len(numeral) == 0 {
		return false
	}
	for _, b := range numeral {
		if b < '0' || b > '9' {
			return false
		}
	}
	return true
}

// normalizeLineBreaks maps every carriage return to a newline in place.
// Containers store multi-line text with '\r' separators.
func normalizeLineBreaks(payload []byte) {
	for i, b := range payload {
		if b == '\r' {
			payload[i] = '\n'
		}
	}
}

// Tokenize decodes a complete uncompressed stream.
// On any FormatError no tokens are returned.
func Tokenize(r io.Reader) ([]Token, error) {
	dec := NewDecoder(r)
	var tokens []Token
	for {
		tok, err := dec.Next()
		if err != nil {
			if err == io.EOF {
				return tokens, nil
			}
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}
