package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ccollicutt/seqscan/pkg/parser"
)

// LengthCollector computes length statistics and flags records outside
// [min, max]. A zero bound is not checked.
type LengthCollector struct {
	min, max int

	// histogram maps a length to the number of records with it, so memory
	// grows with distinct lengths rather than records.
	histogram map[int]int64
	records   int
	minSeen   int
	maxSeen   int
	residues  int64
	issues   []Issue
	start    time.Time
}

// NewLengthCollector creates a length collector with the given bounds.
func NewLengthCollector(min, max int) (*LengthCollector, error) {
	if min < 0 || max < 0 {
		return nil, fmt.Errorf("length bounds must not be negative (min %d, max %d)", min, max)
	}
	if max > 0 && min > max {
		return nil, fmt.Errorf("min length %d exceeds max length %d", min, max)
	}
	return &LengthCollector{min: min, max: max, histogram: make(map[int]int64)}, nil
}

func (c *LengthCollector) Name() string        { return "length" }
func (c *LengthCollector) Type() CollectorType { return CollectorTypeLength }

// Process records one length.
func (c *LengthCollector) Process(_ context.Context, rec *parser.Record) error {
	if c.start.IsZero() {
		c.start = time.Now()
	}

	n := len(rec.Seq)
	if c.records == 0 || n < c.minSeen {
		c.minSeen = n
	}
	if c.records == 0 || n > c.maxSeen {
		c.maxSeen = n
	}
	c.histogram[n]++
	c.records++
	c.residues += int64(n)

	switch {
	case c.min > 0 && n < c.min:
		c.issues = append(c.issues, c.lengthIssue(rec, IssueTypeTooShort, c.min))
	case c.max > 0 && n > c.max:
		c.issues = append(c.issues, c.lengthIssue(rec, IssueTypeTooLong, c.max))
	}
	return nil
}

func (c *LengthCollector) lengthIssue(rec *parser.Record, typ IssueType, limit int) Issue {
	word := "minimum"
	if typ == IssueTypeTooLong {
		word = "maximum"
	}
	return Issue{
		Type:        typ,
		Description: fmt.Sprintf("%s has length %d (%s %d)", rec.Name(), len(rec.Seq), word, limit),
		Context: IssueContext{
			RecordID: rec.Name(),
			Source:   rec.Source,
			Index:    rec.Index,
			Length:   len(rec.Seq),
			Limit:    limit,
		},
	}
}

// Finalize computes the summary.
func (c *LengthCollector) Finalize(_ context.Context) (*CollectorResult, error) {
	ls := &LengthStats{
		Records:  c.records,
		Residues: c.residues,
	}

	if c.records > 0 {
		ls.Max = c.maxSeen
		ls.Min = c.minSeen
		ls.Mean = float64(c.residues) / float64(c.records)
		ls.N50 = n50(c.histogram, c.residues)
	}

	return &CollectorResult{
		Name:    c.Name(),
		Type:    c.Type(),
		Issues:  c.issues,
		Lengths: ls,
		Stats: CollectorStats{
			RecordsProcessed: c.records,
			StartTime:        c.start,
			EndTime:          time.Now(),
		},
	}, nil
}

// n50 returns the length L such that records of length >= L hold at least
// half of all residues. counts maps each length to its number of records.
func n50(counts map[int]int64, total int64) int {
	lengths := make([]int, 0, len(counts))
	for n := range counts {
		lengths = append(lengths, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))

	var sum int64
	for _, n := range lengths {
		sum += int64(n) * counts[n]
		if 2*sum >= total {
			return n
		}
	}
	return 0
}

// Reset clears internal state.
func (c *LengthCollector) Reset() {
	c.histogram = make(map[int]int64)
	c.records = 0
	c.minSeen = 0
	c.maxSeen = 0
	c.residues = 0
	c.issues = nil
	c.start = time.Time{}
}
