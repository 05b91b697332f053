package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrUnpaired is returned when one side of a paired source runs out of
// records before the other.
var ErrUnpaired = errors.New("paired inputs have different record counts")

// PairedSource interleaves two sources record by record: first mate, second
// mate, first mate, and so on. It is the usual layout for paired-end reads
// split across an R1 and an R2 file.
type PairedSource struct {
	first  Source
	second Source
	turn   int
	pairs  int
}

// NewPairedSource creates a Source that alternates between first and second.
func NewPairedSource(first, second Source) *PairedSource {
	return &PairedSource{first: first, second: second}
}

// Next returns the next mate. Returns io.EOF when both sources end together,
// and ErrUnpaired when only one of them does.
func (p *PairedSource) Next(ctx context.Context) (*Record, error) {
	if p.turn == 0 {
		rec, err := p.first.Next(ctx)
		if err == io.EOF {
			if _, err := p.second.Next(ctx); err != io.EOF {
				if err != nil {
					return nil, err
				}
				return nil, fmt.Errorf("%w: second input has more than %d records", ErrUnpaired, p.pairs)
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		p.turn = 1
		return rec, nil
	}

	rec, err := p.second.Next(ctx)
	if err == io.EOF {
		return nil, fmt.Errorf("%w: second input ended after %d records", ErrUnpaired, p.pairs)
	}
	if err != nil {
		return nil, err
	}
	p.turn = 0
	p.pairs++
	return rec, nil
}

// Pairs returns the number of complete pairs returned so far.
func (p *PairedSource) Pairs() int {
	return p.pairs
}

// Close releases both sources.
func (p *PairedSource) Close() error {
	err1 := p.first.Close()
	err2 := p.second.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
