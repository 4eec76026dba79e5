// Package slf decodes the SLF container used by Xcode activity logs.
//
// A container is a gzip stream whose payload starts with the SLF0 marker and
// continues as a flat run of entries, each `<numeral><tag>[payload]`:
//
//	#  integer          numeral is the value
//	%  class name       numeral is the payload length
//	@  class name ref   numeral is the class index
//	"  string           numeral is the payload length
//	^  double           numeral is the hex-encoded value
//	-  nil list         no numeral
//	(  list start       numeral is the element count
//
// The package only tokenizes. It does not rebuild the object graph the
// tokens describe; callers that need diagnostics read String tokens directly.
package slf

import "fmt"

// Magic is the marker every container payload starts with.
const Magic = "SLF0"

// MaxPayloadSize caps the declared length of a single String or ClassName
// payload (64 MiB). Larger declarations are treated as corrupt.
const MaxPayloadSize = 64 * 1024 * 1024

// Kind identifies the type of a token.
type Kind uint8

// Token kinds, one per tag byte.
const (
	KindInteger Kind = iota + 1
	KindClassName
	KindClassNameRef
	KindString
	KindDouble
	KindNilList
	KindListStart
)

var kindTags = map[Kind]byte{
	KindInteger:      '#',
	KindClassName:    '%',
	KindClassNameRef: '@',
	KindString:       '"',
	KindDouble:       '^',
	KindNilList:      '-',
	KindListStart:    '(',
}

var kindNames = map[Kind]string{
	KindInteger:      "integer",
	KindClassName:    "class_name",
	KindClassNameRef: "class_name_ref",
	KindString:       "string",
	KindDouble:       "double",
	KindNilList:      "nil_list",
	KindListStart:    "list_start",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Tag returns the tag byte that introduces tokens of this kind.
// It returns 0 for an unknown kind.
func (k Kind) Tag() byte {
	return kindTags[k]
}

// MarshalText implements encoding.TextMarshaler so tokens render by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// kindForTag maps a tag byte to its kind.
func kindForTag(b byte) (Kind, bool) {
	switch b {
	case '#':
		return KindInteger, true
	case '%':
		return KindClassName, true
	case '@':
		return KindClassNameRef, true
	case '"':
		return KindString, true
	case '^':
		return KindDouble, true
	case '-':
		return KindNilList, true
	case '(':
		return KindListStart, true
	default:
		return 0, false
	}
}

// hasLengthPayload reports whether the numeral of k declares a payload length.
func (k Kind) hasLengthPayload() bool {
	return k == KindString || k == KindClassName
}

// Token is a single decoded container entry.
//
// For String and ClassName, Content is the payload. For Integer, Double,
// ClassNameRef and ListStart, Content is the numeral text. NilList has no
// content.
type Token struct {
	Kind    Kind   `json:"kind"`
	Content string `json:"content,omitempty"`
}
