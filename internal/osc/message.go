// Package osc implements the Open Sound Control 1.0 wire format: binary
// encoding/decoding of messages and a secondary text form used for
// debugging, preset files, and one-shot command-line tools.
package osc

import (
	"errors"
	"fmt"
	"math"
)

var (
	errShortRead   = errors.New("unexpected end of input")
	errInvalidUTF8 = errors.New("invalid utf-8 in osc string")
)

// Kind enumerates the error taxonomy shared across the codec and the
// server: Io, Utf8, InvalidTypeTag, UnsupportedTypeTag, ParseError.
type Kind int

const (
	KindIO Kind = iota
	KindUTF8
	KindInvalidTypeTag
	KindUnsupportedTypeTag
	KindParseError
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "Io"
	case KindUTF8:
		return "Utf8"
	case KindInvalidTypeTag:
		return "InvalidTypeTag"
	case KindUnsupportedTypeTag:
		return "UnsupportedTypeTag"
	case KindParseError:
		return "ParseError"
	default:
		return "Unknown"
	}
}

// Error is the single error type the codec returns.
// Tag carries the offending type-tag character for KindUnsupportedTypeTag;
// Detail carries a human-readable description for KindParseError.
type Error struct {
	Kind   Kind
	Tag    byte
	Detail string
	Err    error // underlying error, if any (e.g. errShortRead)
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupportedTypeTag:
		return fmt.Sprintf("osc: unsupported type tag %q", e.Tag)
	case KindParseError:
		return fmt.Sprintf("osc: parse error: %s", e.Detail)
	default:
		if e.Err != nil {
			return fmt.Sprintf("osc: %s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("osc: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func errIO(err error) error {
	return &Error{Kind: KindIO, Err: err}
}

func errUTF8(err error) error {
	return &Error{Kind: KindUTF8, Err: err}
}

func errInvalidTypeTag() error {
	return &Error{Kind: KindInvalidTypeTag}
}

func errUnsupportedTypeTag(tag byte) error {
	return &Error{Kind: KindUnsupportedTypeTag, Tag: tag}
}

func errParse(detail string) error {
	return &Error{Kind: KindParseError, Detail: detail}
}

// ArgKind identifies which variant of Arg is populated.
type ArgKind int

const (
	ArgInt ArgKind = iota
	ArgFloat
	ArgString
	ArgBlob
)

// Tag returns the OSC type-tag character for this argument kind.
func (k ArgKind) Tag() byte {
	switch k {
	case ArgInt:
		return 'i'
	case ArgFloat:
		return 'f'
	case ArgString:
		return 's'
	case ArgBlob:
		return 'b'
	default:
		return 0
	}
}

// Arg is the OSC argument sum type: Int32 | Float32 | String | Blob.
// Exactly one of the fields is meaningful, selected by Kind.
type Arg struct {
	Kind  ArgKind
	I     int32
	F     float32
	S     string
	Blob  []byte
}

func Int(v int32) Arg    { return Arg{Kind: ArgInt, I: v} }
func Float(v float32) Arg { return Arg{Kind: ArgFloat, F: v} }
func Str(v string) Arg   { return Arg{Kind: ArgString, S: v} }
func Blob(v []byte) Arg  { return Arg{Kind: ArgBlob, Blob: v} }

// Bool reports whether the argument is a "true" integer (non-zero),
// applying the protocol's documented int->bool coercion (v != 0).
func (a Arg) Bool() bool {
	return a.Kind == ArgInt && a.I != 0
}

// Equal reports whether two arguments are identical in kind and value.
func (a Arg) Equal(b Arg) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ArgInt:
		return a.I == b.I
	case ArgFloat:
		// Compare bit patterns rather than values so NaN/NaN and
		// signed-zero comparisons behave as bit-exact equality, matching
		// the codec's bit-exact wire contract.
		return math.Float32bits(a.F) == math.Float32bits(b.F)
	case ArgString:
		return a.S == b.S
	case ArgBlob:
		if len(a.Blob) != len(b.Blob) {
			return false
		}
		for i := range a.Blob {
			if a.Blob[i] != b.Blob[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Message is a decoded OSC message: an address pattern, plus the argument
// sequence described by its implicit type-tag string.
type Message struct {
	Address string
	Args    []Arg
}

// New builds a message from an address and arguments.
func New(address string, args ...Arg) Message {
	return Message{Address: address, Args: args}
}

// TypeTags returns the type-tag string (",ifs..." form) for this message.
func (m Message) TypeTags() string {
	tags := make([]byte, 0, len(m.Args)+1)
	tags = append(tags, ',')
	for _, a := range m.Args {
		tags = append(tags, a.Kind.Tag())
	}
	return string(tags)
}

// Equal reports whether two messages have the same address and arguments.
func (m Message) Equal(other Message) bool {
	if m.Address != other.Address || len(m.Args) != len(other.Args) {
		return false
	}
	for i := range m.Args {
		if !m.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}
