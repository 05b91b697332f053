// Package parser reads sequence records from FASTA and FASTQ streams.
package parser

import (
	"github.com/ccollicutt/seqscan/pkg/alphabet"
)

// Record is a single sequence entry. A Record is reused across reads: each
// successful read clears and refills it.
type Record struct {
	// ID is the header line after the marker, as raw bytes.
	ID []byte

	// Seq is the residue data converted through the caller's alphabet.
	Seq []alphabet.Letter

	// Source is the file path this record came from (set by Source implementations).
	Source string

	// Index is the 1-based record number within Source.
	Index int
}

// Reset empties the record while keeping its buffers.
func (r *Record) Reset() {
	r.ID = r.ID[:0]
	r.Seq = r.Seq[:0]
}

// Clone returns a deep copy, detached from the reader's buffers.
func (r *Record) Clone() *Record {
	c := &Record{
		ID:     make([]byte, len(r.ID)),
		Seq:    make([]alphabet.Letter, len(r.Seq)),
		Source: r.Source,
		Index:  r.Index,
	}
	copy(c.ID, r.ID)
	copy(c.Seq, r.Seq)
	return c
}

// Name returns the identifier as a string.
func (r *Record) Name() string {
	return string(r.ID)
}

// ByteStream is the input a parser borrows for the duration of a call.
// ReadByte returns io.EOF once the stream is exhausted. PutBack returns one
// byte to the front of the stream; it is used at most once between reads.
type ByteStream interface {
	ReadByte() (byte, error)
	PutBack(c byte) error
}

// offsetter is implemented by streams that can report their position.
type offsetter interface {
	Offset() int64
}
