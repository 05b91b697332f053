package parser

import (
	"github.com/ccollicutt/seqscan/pkg/alphabet"
)

// Reader reads successive records from one stream whose format was
// detected when the Reader was created.
type Reader struct {
	s      ByteStream
	format Format
	enc    alphabet.Encoder
}

// NewReader detects the format of s and returns a Reader for it. Residues
// are converted with enc.
func NewReader(s ByteStream, enc alphabet.Encoder) (*Reader, error) {
	f, err := Detect(s)
	if err != nil {
		return nil, err
	}
	return NewFormatReader(s, f, enc), nil
}

// NewFormatReader returns a Reader for a stream whose format is already known.
func NewFormatReader(s ByteStream, f Format, enc alphabet.Encoder) *Reader {
	return &Reader{s: s, format: f, enc: enc}
}

// Format returns the detected format.
func (r *Reader) Format() Format {
	return r.format
}

// Read fills rec with the next record, returning io.EOF after the last one.
func (r *Reader) Read(rec *Record) error {
	return r.format.Read(r.s, rec, r.enc)
}
