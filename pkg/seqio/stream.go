// Package seqio provides the byte stream that sequence parsers read from.
//
// A Stream wraps any io.Reader, transparently decompressing gzip, zstd and
// bzip2 input, and offers single-byte reads with a one-byte put-back slot.
package seqio

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Stdin is the path that Open treats as standard input.
const Stdin = "-"

const bufferSize = 64 * 1024

// ErrPutBackFull is returned when PutBack is called twice without an
// intervening read.
var ErrPutBackFull = errors.New("put-back slot already occupied")

// Compression identifies the encoding detected on the underlying reader.
type Compression string

const (
	CompressionNone  Compression = "none"
	CompressionGzip  Compression = "gzip"
	CompressionZstd  Compression = "zstd"
	CompressionBzip2 Compression = "bzip2"
)

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicBzip2 = []byte("BZh")
)

// Stream is a forward-only byte source with a single put-back slot.
// It is not safe for concurrent use.
type Stream struct {
	r           *bufio.Reader
	closers     []func() error
	compression Compression
	offset      int64

	slot    byte
	hasSlot bool
}

// NewStream wraps r, sniffing its leading bytes to pick a decompressor.
func NewStream(r io.Reader) (*Stream, error) {
	s := &Stream{compression: CompressionNone}

	br := bufio.NewReaderSize(r, bufferSize)
	head, err := br.Peek(len(magicZstd))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("reading stream header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, magicGzip):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		s.closers = append(s.closers, zr.Close)
		s.r = bufio.NewReaderSize(zr, bufferSize)
		s.compression = CompressionGzip

	case bytes.HasPrefix(head, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		s.closers = append(s.closers, func() error {
			zr.Close()
			return nil
		})
		s.r = bufio.NewReaderSize(zr, bufferSize)
		s.compression = CompressionZstd

	case bytes.HasPrefix(head, magicBzip2):
		s.r = bufio.NewReaderSize(bzip2.NewReader(br), bufferSize)
		s.compression = CompressionBzip2

	default:
		s.r = br
	}

	return s, nil
}

// Open opens a file as a Stream. The path "-" reads standard input.
func Open(path string) (*Stream, error) {
	if path == Stdin {
		return NewStream(os.Stdin)
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided input paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	s, err := NewStream(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.closers = append(s.closers, f.Close)
	return s, nil
}

// ReadByte returns the next byte, or io.EOF once the stream is exhausted.
func (s *Stream) ReadByte() (byte, error) {
	if s.hasSlot {
		s.hasSlot = false
		s.offset++
		return s.slot, nil
	}
	c, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	s.offset++
	return c, nil
}

// PutBack returns c to the front of the stream so the next ReadByte
// yields it again. Only one byte may be held at a time.
func (s *Stream) PutBack(c byte) error {
	if s.hasSlot {
		return ErrPutBackFull
	}
	s.slot = c
	s.hasSlot = true
	s.offset--
	return nil
}

// Offset returns the position of the next byte in the decompressed stream.
func (s *Stream) Offset() int64 {
	return s.offset
}

// Compression reports the encoding detected when the stream was opened.
func (s *Stream) Compression() Compression {
	return s.compression
}

// Close releases the decompressor and the underlying file, if any.
func (s *Stream) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}
