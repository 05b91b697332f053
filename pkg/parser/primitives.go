package parser

import (
	"io"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
)

// A line ends at '\n', or at '\r' immediately followed by '\n'. End of
// stream also ends a line. A '\r' followed by anything else is a violation.

// rawText is the conversion applied to header bytes.
func rawText(c byte) (byte, error) {
	return c, nil
}

// copyLine appends the converted bytes of the current line to dst and
// consumes the line terminator.
func copyLine[T any](s ByteStream, dst []T, conv func(byte) (T, error)) ([]T, error) {
	for {
		c, err := s.ReadByte()
		if err == io.EOF {
			return dst, nil
		}
		if err != nil {
			return dst, err
		}
		switch c {
		case '\n':
			return dst, nil
		case '\r':
			return dst, expectLineFeed(s)
		}
		v, err := conv(c)
		if err != nil {
			return dst, symbolError(s, err)
		}
		dst = append(dst, v)
	}
}

// skipLine discards the current line, including its terminator.
func skipLine(s ByteStream) error {
	for {
		c, err := s.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch c {
		case '\n':
			return nil
		case '\r':
			return expectLineFeed(s)
		}
	}
}

func expectLineFeed(s ByteStream) error {
	c, err := s.ReadByte()
	if err == io.EOF {
		return violation(s, false, `'\n'`, endOfStream, "carriage return not followed by line feed")
	}
	if err != nil {
		return err
	}
	if c != '\n' {
		return violation(s, true, `'\n'`, quote(c), "carriage return not followed by line feed")
	}
	return nil
}

// copyUntil appends residues to dst until delim or end of stream. Line
// breaks are dropped. The delimiter is only legal at the start of a line;
// there it is put back so the next read sees it.
func copyUntil(s ByteStream, delim byte, dst []alphabet.Letter, enc alphabet.Encoder) ([]alphabet.Letter, error) {
	col := 0
	for {
		c, err := s.ReadByte()
		if err == io.EOF {
			return dst, nil
		}
		if err != nil {
			return dst, err
		}
		switch c {
		case delim:
			if col > 0 {
				return dst, violation(s, true, "residue or line break", quote(c), "record marker inside a sequence line")
			}
			return dst, s.PutBack(c)
		case '\n':
			col = 0
		case '\r':
		default:
			l, err := enc.Encode(c)
			if err != nil {
				return dst, symbolError(s, err)
			}
			dst = append(dst, l)
			col++
		}
	}
}

// expectChar consumes one byte that must equal want.
func expectChar(s ByteStream, want byte) error {
	c, err := s.ReadByte()
	if err == io.EOF {
		return violation(s, false, quote(want), endOfStream, "missing required character")
	}
	if err != nil {
		return err
	}
	if c != want {
		return violation(s, true, quote(want), quote(c), "unexpected character")
	}
	return nil
}

// probeChar reports whether another record starts here. End of stream gives
// false; any byte other than want is a violation.
func probeChar(s ByteStream, want byte) (bool, error) {
	c, err := s.ReadByte()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c != want {
		return false, violation(s, true, quote(want), quote(c), "record does not start with marker")
	}
	return true, nil
}
