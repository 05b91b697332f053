// Package detector inspects a sequence file and reports its format,
// compression and likely residue alphabet.
package detector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
	"github.com/ccollicutt/seqscan/pkg/parser"
	"github.com/ccollicutt/seqscan/pkg/seqio"
)

// DetectionResult holds the result of inspecting a file.
type DetectionResult struct {
	Format      parser.Format
	Compression seqio.Compression

	SampledRecords  int
	SampledResidues int64
	MinLength       int
	MaxLength       int
	MeanLength      float64

	// Matches holds a confidence per candidate alphabet, sorted by
	// confidence descending.
	Matches []AlphabetMatch

	// Guess is the chosen alphabet name, "raw" when no candidate reached
	// its threshold.
	Guess string

	// Invalid counts sampled residues rejected by the alphabet set with
	// WithAlphabet. FirstInvalid locates the first one.
	Invalid      int64
	FirstInvalid string
}

// AlphabetMatch is the fraction of sampled residues in a candidate's core set.
type AlphabetMatch struct {
	Candidate  *Candidate
	Confidence float64
	Matched    int64
}

// Detector samples records from a sequence file.
type Detector struct {
	candidates []*Candidate
	sampleSize int
	check      *alphabet.Alphabet
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of records to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithAlphabet checks sampled residues against a. Rejected residues are
// counted in DetectionResult.Invalid.
func WithAlphabet(a *alphabet.Alphabet) Option {
	return func(d *Detector) {
		d.check = a
	}
}

// New creates a new Detector with the default candidates.
func New(opts ...Option) *Detector {
	d := &Detector{
		candidates: DefaultCandidates(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile opens path ("-" for stdin) and inspects it.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	s, err := seqio.Open(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return d.detect(ctx, s, s.Compression())
}

// DetectFromReader inspects an already open stream.
func (d *Detector) DetectFromReader(ctx context.Context, r io.Reader) (*DetectionResult, error) {
	s, err := seqio.NewStream(r)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return d.detect(ctx, s, s.Compression())
}

func (d *Detector) detect(ctx context.Context, s parser.ByteStream, comp seqio.Compression) (*DetectionResult, error) {
	rd, err := parser.NewReader(s, alphabet.Raw)
	if err != nil {
		return nil, err
	}

	result := &DetectionResult{
		Format:      rd.Format(),
		Compression: comp,
	}

	sets := make([]*residueSet, len(d.candidates))
	counts := make([]int64, len(d.candidates))
	for i, c := range d.candidates {
		sets[i] = newResidueSet(c.Core)
	}

	var rec parser.Record
	for result.SampledRecords < d.sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := rd.Read(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", result.SampledRecords+1, err)
		}
		result.SampledRecords++

		n := len(rec.Seq)
		if result.SampledRecords == 1 || n < result.MinLength {
			result.MinLength = n
		}
		if n > result.MaxLength {
			result.MaxLength = n
		}
		result.SampledResidues += int64(n)

		for pos, l := range rec.Seq {
			c := byte(l)
			for i, set := range sets {
				if set[c] {
					counts[i]++
				}
			}
			if d.check != nil {
				if _, err := d.check.Encode(c); err != nil {
					if result.Invalid == 0 {
						result.FirstInvalid = fmt.Sprintf("%q in %s at position %d", c, rec.Name(), pos+1)
					}
					result.Invalid++
				}
			}
		}
	}

	if result.SampledRecords > 0 {
		result.MeanLength = float64(result.SampledResidues) / float64(result.SampledRecords)
	}

	d.score(result, counts)
	return result, nil
}

// score fills Matches and Guess. The guess is the first candidate, in
// declaration order, whose confidence reaches its threshold.
func (d *Detector) score(result *DetectionResult, counts []int64) {
	result.Guess = alphabet.Raw.Name()
	if result.SampledResidues == 0 {
		return
	}

	for i, c := range d.candidates {
		conf := float64(counts[i]) / float64(result.SampledResidues)
		result.Matches = append(result.Matches, AlphabetMatch{
			Candidate:  c,
			Confidence: conf,
			Matched:    counts[i],
		})
		if result.Guess == alphabet.Raw.Name() && conf >= c.Threshold {
			result.Guess = c.Name
		}
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})
}

// GuessedAlphabet returns the alphabet named by Guess.
func (r *DetectionResult) GuessedAlphabet() *alphabet.Alphabet {
	a, err := alphabet.Lookup(r.Guess)
	if err != nil {
		return alphabet.Raw
	}
	return a
}

// BestMatch returns the highest confidence match, or nil if nothing was sampled.
func (r *DetectionResult) BestMatch() *AlphabetMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}
