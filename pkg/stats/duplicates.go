package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/ccollicutt/seqscan/pkg/parser"
)

type location struct {
	source string
	index  int
}

// DuplicateCollector reports identifiers that occur more than once.
// Only the first whitespace-delimited word of the header is compared, so
// "read1 length=100" and "read1 length=90" are duplicates.
type DuplicateCollector struct {
	perSource bool

	seen    map[string]location
	issues  []Issue
	records int
	start   time.Time
}

// DuplicateOption configures a DuplicateCollector.
type DuplicateOption func(*DuplicateCollector)

// PerSource compares identifiers only within the file they came from.
// Mates of a pair share an identifier across the R1 and R2 files.
func PerSource() DuplicateOption {
	return func(c *DuplicateCollector) {
		c.perSource = true
	}
}

// NewDuplicateCollector creates a duplicate identifier collector.
func NewDuplicateCollector(opts ...DuplicateOption) *DuplicateCollector {
	c := &DuplicateCollector{seen: make(map[string]location)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *DuplicateCollector) Name() string        { return "duplicates" }
func (c *DuplicateCollector) Type() CollectorType { return CollectorTypeDuplicates }

// Process checks one identifier.
func (c *DuplicateCollector) Process(_ context.Context, rec *parser.Record) error {
	if c.start.IsZero() {
		c.start = time.Now()
	}
	c.records++

	id := firstWord(rec.ID)
	key := id
	if c.perSource {
		key = rec.Source + "\x00" + id
	}
	first, dup := c.seen[key]
	if !dup {
		c.seen[key] = location{source: rec.Source, index: rec.Index}
		return nil
	}

	c.issues = append(c.issues, Issue{
		Type:        IssueTypeDuplicateID,
		Description: fmt.Sprintf("%s repeats record %d of %s", id, first.index, first.source),
		Context: IssueContext{
			RecordID:    id,
			Source:      rec.Source,
			Index:       rec.Index,
			FirstSource: first.source,
			FirstIndex:  first.index,
		},
	})
	return nil
}

func firstWord(header []byte) string {
	for i, c := range header {
		if c == ' ' || c == '\t' {
			return string(header[:i])
		}
	}
	return string(header)
}

// Finalize returns the detected duplicates.
func (c *DuplicateCollector) Finalize(_ context.Context) (*CollectorResult, error) {
	return &CollectorResult{
		Name:   c.Name(),
		Type:   c.Type(),
		Issues: c.issues,
		Stats: CollectorStats{
			RecordsProcessed: c.records,
			StartTime:        c.start,
			EndTime:          time.Now(),
		},
	}, nil
}

// Reset clears internal state.
func (c *DuplicateCollector) Reset() {
	c.seen = make(map[string]location)
	c.issues = nil
	c.records = 0
	c.start = time.Time{}
}
