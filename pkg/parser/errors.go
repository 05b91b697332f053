package parser

import (
	"errors"
	"fmt"
)

// ErrFormat is the single error kind for malformed input. Use errors.Is to
// test for it; errors.As with *FormatError yields the details.
var ErrFormat = errors.New("file format violation")

// FormatError describes where and how the input diverged from the format.
type FormatError struct {
	// Offset is the byte offset of the offending byte in the (decompressed)
	// stream, or -1 if the stream cannot report positions.
	Offset int64

	// Expected describes what the parser required at Offset.
	Expected string

	// Found describes what was actually there.
	Found string

	// Reason is a short description of the violated rule.
	Reason string
}

func (e *FormatError) Error() string {
	msg := ErrFormat.Error() + ": " + e.Reason
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at byte %d", e.Offset)
	}
	if e.Expected != "" || e.Found != "" {
		msg += fmt.Sprintf(" (expected %s, found %s)", e.Expected, e.Found)
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

const endOfStream = "end of stream"

// violation builds a FormatError. consumed reports whether the offending
// byte has already been read from s.
func violation(s ByteStream, consumed bool, expected, found, reason string) *FormatError {
	off := int64(-1)
	if o, ok := s.(offsetter); ok {
		off = o.Offset()
		if consumed {
			off--
		}
	}
	return &FormatError{Offset: off, Expected: expected, Found: found, Reason: reason}
}

// symbolError attaches the stream position to an alphabet error.
func symbolError(s ByteStream, err error) error {
	if o, ok := s.(offsetter); ok {
		return fmt.Errorf("byte %d: %w", o.Offset()-1, err)
	}
	return err
}

func quote(c byte) string {
	return fmt.Sprintf("%q", c)
}
