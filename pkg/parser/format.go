package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
)

// Format identifies a sequence encoding. Formats carry no state and may be
// shared across goroutines and streams.
type Format int

const (
	// FormatUnknown is the zero value; reading with it always fails.
	FormatUnknown Format = iota
	// FormatFASTA: '>' header line followed by sequence lines up to the next
	// '>' at the start of a line.
	FormatFASTA
	// FormatFASTQ: four lines per record, '@' header, sequence, '+' separator
	// and quality.
	FormatFASTQ
)

// String returns the lower-case format name.
func (f Format) String() string {
	switch f {
	case FormatFASTA:
		return "fasta"
	case FormatFASTQ:
		return "fastq"
	default:
		return "unknown"
	}
}

// Marker returns the byte that opens every record of the format.
func (f Format) Marker() byte {
	switch f {
	case FormatFASTA:
		return '>'
	case FormatFASTQ:
		return '@'
	default:
		return 0
	}
}

// ParseFormat resolves a format name as accepted on the command line.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "fasta", "fa":
		return FormatFASTA, nil
	case "fastq", "fq":
		return FormatFASTQ, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown format %q (must be fasta or fastq)", name)
	}
}

// Detect classifies a stream from its first byte. The byte is put back, so
// the first Read sees the marker exactly like every following record.
func Detect(s ByteStream) (Format, error) {
	c, err := s.ReadByte()
	if err == io.EOF {
		return FormatUnknown, violation(s, false, "'>' or '@'", endOfStream, "empty input")
	}
	if err != nil {
		return FormatUnknown, err
	}

	var f Format
	switch c {
	case '>':
		f = FormatFASTA
	case '@':
		f = FormatFASTQ
	default:
		return FormatUnknown, violation(s, true, "'>' or '@'", quote(c), "unrecognized sequence format")
	}

	if err := s.PutBack(c); err != nil {
		return FormatUnknown, err
	}
	return f, nil
}

// Read fills rec with the next record. It returns io.EOF when the stream
// ends at a record boundary. On any error, io.EOF included, rec is left
// empty.
func (f Format) Read(s ByteStream, rec *Record, enc alphabet.Encoder) error {
	var err error
	switch f {
	case FormatFASTA:
		err = readFASTA(s, rec, enc)
	case FormatFASTQ:
		err = readFASTQ(s, rec, enc)
	default:
		err = fmt.Errorf("reading record: %s format", f)
	}
	if err != nil {
		rec.Reset()
	}
	return err
}

func readFASTA(s ByteStream, rec *Record, enc alphabet.Encoder) error {
	ok, err := probeChar(s, '>')
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}

	rec.Reset()
	if rec.ID, err = copyLine(s, rec.ID, rawText); err != nil {
		return err
	}
	rec.Seq, err = copyUntil(s, '>', rec.Seq, enc)
	return err
}

func readFASTQ(s ByteStream, rec *Record, enc alphabet.Encoder) error {
	ok, err := probeChar(s, '@')
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}

	rec.Reset()
	if rec.ID, err = copyLine(s, rec.ID, rawText); err != nil {
		return err
	}
	if rec.Seq, err = copyLine(s, rec.Seq, enc.Encode); err != nil {
		return err
	}
	if err := expectChar(s, '+'); err != nil {
		return err
	}
	// Optional repeated identifier after '+'.
	if err := skipLine(s); err != nil {
		return err
	}
	// Quality line.
	return skipLine(s)
}
