package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/tliron/commonlog"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
	"github.com/ccollicutt/seqscan/pkg/seqio"
)

// logger is resolved on use so that the backend selected by the CLI applies.
func logger() commonlog.Logger {
	return commonlog.GetLogger("seqscan.parser")
}

// FileSource implements Source over a list of sequence files. Each file is
// opened lazily, decompressed transparently and format-detected on its own,
// so a list may mix FASTA and FASTQ inputs.
type FileSource struct {
	files []string
	enc   alphabet.Encoder

	current       *seqio.Stream
	currentReader *Reader
	currentSource string
	currentIndex  int
	fileIndex     int

	// err is the first read failure. A format violation ends the stream,
	// so every later Next returns it again.
	err error

	rec Record
}

// NewFileSource creates a Source that reads the given files in order.
// The path "-" reads standard input.
func NewFileSource(files []string, enc alphabet.Encoder) *FileSource {
	return &FileSource{
		files:     files,
		enc:       enc,
		fileIndex: -1,
	}
}

// Next returns the next record across all files.
// Returns io.EOF when all files have been exhausted. After a read or
// detection error the source is finished and keeps returning that error.
func (s *FileSource) Next(ctx context.Context) (*Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.currentReader == nil {
			if err := s.openNextFile(); err != nil {
				if err != io.EOF {
					s.err = err
				}
				return nil, err
			}
		}

		err := s.currentReader.Read(&s.rec)
		if err == nil {
			s.currentIndex++
			s.rec.Source = s.currentSource
			s.rec.Index = s.currentIndex
			return &s.rec, nil
		}
		if err != io.EOF {
			s.err = fmt.Errorf("reading %s record %d: %w", s.currentSource, s.currentIndex+1, err)
			_ = s.closeCurrentFile()
			return nil, s.err
		}

		logger().Debugf("%s: %d records", s.currentSource, s.currentIndex)
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Format returns the format of the file currently being read.
func (s *FileSource) Format() Format {
	if s.currentReader == nil {
		return FormatUnknown
	}
	return s.currentReader.Format()
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	stream, err := seqio.Open(path)
	if err != nil {
		return err
	}

	r, err := NewReader(stream, s.enc)
	if err != nil {
		_ = stream.Close()
		return fmt.Errorf("detecting format of %s: %w", path, err)
	}

	logger().Debugf("opened %s (format %s, compression %s)", path, r.Format(), stream.Compression())

	s.current = stream
	s.currentReader = r
	s.currentSource = path
	s.currentIndex = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	s.currentReader = nil
	if s.current != nil {
		err := s.current.Close()
		s.current = nil
		return err
	}
	return nil
}
