package parser

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
)

// DefaultQuality is the quality character written for FASTQ output when
// the source carried no quality data.
const DefaultQuality = 'I'

// Writer serializes records back into FASTA or FASTQ.
type Writer struct {
	w       *bufio.Writer
	format  Format
	dec     alphabet.Decoder
	width   int
	quality byte

	buf []byte
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithLineWidth wraps FASTA sequence lines at n residues (0 disables wrapping).
func WithLineWidth(n int) WriterOption {
	return func(w *Writer) {
		if n >= 0 {
			w.width = n
		}
	}
}

// WithQuality sets the character used to fill FASTQ quality lines.
func WithQuality(c byte) WriterOption {
	return func(w *Writer) {
		if c > ' ' && c <= '~' {
			w.quality = c
		}
	}
}

// NewWriter returns a Writer emitting format f to out. Letters are mapped
// back to bytes with dec.
func NewWriter(out io.Writer, f Format, dec alphabet.Decoder, opts ...WriterOption) *Writer {
	w := &Writer{
		w:       bufio.NewWriter(out),
		format:  f,
		dec:     dec,
		quality: DefaultQuality,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write serializes one record.
func (w *Writer) Write(rec *Record) error {
	marker := w.format.Marker()
	if marker == 0 {
		return fmt.Errorf("writing record: %s format", w.format)
	}

	w.buf = w.buf[:0]
	for _, l := range rec.Seq {
		c, err := w.dec.Decode(l)
		if err != nil {
			return fmt.Errorf("writing record %q: %w", rec.ID, err)
		}
		w.buf = append(w.buf, c)
	}

	_ = w.w.WriteByte(marker)
	_, _ = w.w.Write(rec.ID)
	_ = w.w.WriteByte('\n')

	if w.format == FormatFASTA {
		return w.writeWrapped(w.buf)
	}

	_, _ = w.w.Write(w.buf)
	_, _ = w.w.WriteString("\n+\n")
	for range w.buf {
		_ = w.w.WriteByte(w.quality)
	}
	// bufio.Writer errors are sticky, so the last write reports any failure.
	return w.w.WriteByte('\n')
}

func (w *Writer) writeWrapped(seq []byte) error {
	if w.width == 0 || len(seq) <= w.width {
		_, _ = w.w.Write(seq)
		return w.w.WriteByte('\n')
	}
	var err error
	for len(seq) > 0 {
		n := min(w.width, len(seq))
		_, _ = w.w.Write(seq[:n])
		err = w.w.WriteByte('\n')
		seq = seq[n:]
	}
	return err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
