package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
	"github.com/ccollicutt/seqscan/pkg/parser"
)

// CompositionCollector counts residues per letter.
type CompositionCollector struct {
	dec     alphabet.Decoder
	counts  [256]int64
	records int
	start   time.Time
}

// NewCompositionCollector creates a collector that reports counts keyed by
// the residue characters of dec.
func NewCompositionCollector(dec alphabet.Decoder) *CompositionCollector {
	return &CompositionCollector{dec: dec}
}

func (c *CompositionCollector) Name() string        { return "composition" }
func (c *CompositionCollector) Type() CollectorType { return CollectorTypeComposition }

// Process adds one record's residues.
func (c *CompositionCollector) Process(_ context.Context, rec *parser.Record) error {
	if c.start.IsZero() {
		c.start = time.Now()
	}
	c.records++
	for _, l := range rec.Seq {
		c.counts[l]++
	}
	return nil
}

// Finalize decodes the counts.
func (c *CompositionCollector) Finalize(_ context.Context) (*CollectorResult, error) {
	comp := make(map[string]int64)
	for i, n := range c.counts {
		if n == 0 {
			continue
		}
		ch, err := c.dec.Decode(alphabet.Letter(i))
		if err != nil {
			return nil, fmt.Errorf("decoding letter %d: %w", i, err)
		}
		comp[string(ch)] += n
	}

	return &CollectorResult{
		Name:        c.Name(),
		Type:        c.Type(),
		Composition: comp,
		Stats: CollectorStats{
			RecordsProcessed: c.records,
			StartTime:        c.start,
			EndTime:          time.Now(),
		},
	}, nil
}

// Reset clears internal state.
func (c *CompositionCollector) Reset() {
	c.counts = [256]int64{}
	c.records = 0
	c.start = time.Time{}
}
