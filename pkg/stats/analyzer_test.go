package stats

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
	"github.com/ccollicutt/seqscan/pkg/parser"
)

// mockSource is a test Source that returns predefined records.
type mockSource struct {
	records []*parser.Record
	index   int
	err     error
}

func (m *mockSource) Next(ctx context.Context) (*parser.Record, error) {
	if m.index >= len(m.records) {
		if m.err != nil {
			return nil, m.err
		}
		return nil, io.EOF
	}
	rec := m.records[m.index]
	m.index++
	return rec, nil
}

func (m *mockSource) Close() error {
	return nil
}

// record builds a raw-alphabet record.
func record(id, seq, source string, index int) *parser.Record {
	letters := make([]alphabet.Letter, len(seq))
	for i := 0; i < len(seq); i++ {
		letters[i] = alphabet.Letter(seq[i])
	}
	return &parser.Record{ID: []byte(id), Seq: letters, Source: source, Index: index}
}

func TestNewAnalyzer(t *testing.T) {
	a, err := NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	if len(a.collectors) != 3 {
		t.Errorf("collectors = %d, want 3", len(a.collectors))
	}
}

func TestNewAnalyzer_CollectorFilter(t *testing.T) {
	a, err := NewAnalyzer(WithCollectors([]string{"length"}))
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	if len(a.collectors) != 1 || a.collectors[0].Name() != "length" {
		t.Errorf("collectors = %v, want [length]", a.collectors)
	}

	_, err = NewAnalyzer(WithCollectors([]string{"nonexistent"}))
	if err == nil {
		t.Error("NewAnalyzer() expected error when all collectors filtered")
	}
}

func TestNewAnalyzer_InvalidBounds(t *testing.T) {
	if _, err := NewAnalyzer(WithLengthBounds(10, 5)); err == nil {
		t.Error("NewAnalyzer() expected error for min > max")
	}
	if _, err := NewAnalyzer(WithLengthBounds(-1, 0)); err == nil {
		t.Error("NewAnalyzer() expected error for negative bound")
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	a, err := NewAnalyzer(WithLengthBounds(3, 6))
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	source := &mockSource{
		records: []*parser.Record{
			record("r1", "ACGT", "a.fa", 1),
			record("r2", "AC", "a.fa", 2),
			record("r1 dup", "ACGTACGT", "b.fa", 1),
		},
	}

	result, err := a.Analyze(context.Background(), source)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if result.Metadata.RecordsProcessed != 3 {
		t.Errorf("RecordsProcessed = %d, want 3", result.Metadata.RecordsProcessed)
	}
	if len(result.Metadata.Sources) != 2 || result.Metadata.Sources[0] != "a.fa" {
		t.Errorf("Sources = %v, want [a.fa b.fa]", result.Metadata.Sources)
	}

	// r2 too short, r1 dup too long, r1 duplicated
	if got := result.TotalIssues(); got != 3 {
		t.Errorf("TotalIssues() = %d, want 3", got)
	}
	if got := result.CollectorsWithIssues(); got != 2 {
		t.Errorf("CollectorsWithIssues() = %d, want 2", got)
	}

	ls := result.Lengths()
	if ls == nil {
		t.Fatal("Lengths() = nil")
	}
	if ls.Records != 3 || ls.Residues != 14 || ls.Min != 2 || ls.Max != 8 {
		t.Errorf("Lengths() = %+v", ls)
	}
}

func TestAnalyzer_Analyze_SourceError(t *testing.T) {
	a, err := NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	source := &mockSource{
		records: []*parser.Record{record("r1", "ACGT", "a.fa", 1)},
		err:     &parser.FormatError{Offset: 9, Reason: "missing '+' separator"},
	}

	_, err = a.Analyze(context.Background(), source)
	if !errors.Is(err, parser.ErrFormat) {
		t.Errorf("Analyze() error = %v, want ErrFormat", err)
	}
}

func TestAnalyzer_Analyze_Empty(t *testing.T) {
	a, err := NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	result, err := a.Analyze(context.Background(), &mockSource{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.TotalIssues() != 0 {
		t.Errorf("TotalIssues() = %d, want 0", result.TotalIssues())
	}
	if ls := result.Lengths(); ls.Records != 0 || ls.N50 != 0 {
		t.Errorf("Lengths() = %+v, want zero", ls)
	}
}

func TestAnalyzer_Analyze_Rerun(t *testing.T) {
	a, err := NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		source := &mockSource{
			records: []*parser.Record{
				record("r1", "A", "a.fa", 1),
				record("r1", "A", "a.fa", 2),
			},
		}
		result, err := a.Analyze(context.Background(), source)
		if err != nil {
			t.Fatalf("Analyze() run %d error = %v", i, err)
		}
		if got := result.TotalIssues(); got != 1 {
			t.Errorf("run %d: TotalIssues() = %d, want 1", i, got)
		}
	}
}

type countingCollector struct {
	n int
}

func (c *countingCollector) Name() string        { return "counting" }
func (c *countingCollector) Type() CollectorType { return "counting" }
func (c *countingCollector) Process(context.Context, *parser.Record) error {
	c.n++
	return nil
}
func (c *countingCollector) Finalize(context.Context) (*CollectorResult, error) {
	return &CollectorResult{Name: c.Name(), Type: c.Type(), Stats: CollectorStats{RecordsProcessed: c.n}}, nil
}
func (c *countingCollector) Reset() { c.n = 0 }

func TestAnalyzer_CustomCollector(t *testing.T) {
	cc := &countingCollector{}
	a, err := NewAnalyzer(WithCollectors([]string{"duplicates"}), WithCollector(cc))
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	source := &mockSource{records: []*parser.Record{record("a", "", "x", 1), record("b", "", "x", 2)}}
	result, err := a.Analyze(context.Background(), source)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(result.Results) != 2 {
		t.Fatalf("Results = %d, want 2", len(result.Results))
	}
	if got := result.Results[1].Stats.RecordsProcessed; got != 2 {
		t.Errorf("custom collector processed %d, want 2", got)
	}
	if result.Lengths() != nil {
		t.Error("Lengths() should be nil when length collector is filtered out")
	}
}

func TestCollectorNames(t *testing.T) {
	names := CollectorNames()
	if len(names) != 3 {
		t.Errorf("CollectorNames() = %v", names)
	}
}
