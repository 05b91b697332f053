package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
	"github.com/ccollicutt/seqscan/pkg/parser"
)

// Analyzer runs a set of collectors over a record source.
type Analyzer struct {
	collectors []Collector

	// Options
	minLength int
	maxLength int
	decoder   alphabet.Decoder
	filter    map[string]bool // nil means all collectors
	paired    bool
	custom    []Collector
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithLengthBounds flags records shorter than min or longer than max.
// Zero disables a bound.
func WithLengthBounds(min, max int) AnalyzerOption {
	return func(a *Analyzer) {
		a.minLength = min
		a.maxLength = max
	}
}

// WithDecoder sets the alphabet used to report composition.
func WithDecoder(dec alphabet.Decoder) AnalyzerOption {
	return func(a *Analyzer) {
		a.decoder = dec
	}
}

// WithPairedInput makes duplicate detection compare identifiers within each
// mate file only.
func WithPairedInput(paired bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.paired = paired
	}
}

// WithCollectors limits analysis to the named built-in collectors.
func WithCollectors(names []string) AnalyzerOption {
	return func(a *Analyzer) {
		if len(names) > 0 {
			a.filter = make(map[string]bool)
			for _, n := range names {
				a.filter[n] = true
			}
		}
	}
}

// WithCollector adds a caller-supplied collector.
func WithCollector(c Collector) AnalyzerOption {
	return func(a *Analyzer) {
		a.custom = append(a.custom, c)
	}
}

// NewAnalyzer creates an analyzer with the built-in collectors.
func NewAnalyzer(opts ...AnalyzerOption) (*Analyzer, error) {
	a := &Analyzer{decoder: alphabet.Raw}
	for _, opt := range opts {
		opt(a)
	}

	lc, err := NewLengthCollector(a.minLength, a.maxLength)
	if err != nil {
		return nil, fmt.Errorf("creating length collector: %w", err)
	}
	var dupOpts []DuplicateOption
	if a.paired {
		dupOpts = append(dupOpts, PerSource())
	}
	builtin := []Collector{
		lc,
		NewDuplicateCollector(dupOpts...),
		NewCompositionCollector(a.decoder),
	}

	for _, c := range builtin {
		if a.filter != nil && !a.filter[c.Name()] {
			continue
		}
		a.collectors = append(a.collectors, c)
	}
	a.collectors = append(a.collectors, a.custom...)

	if len(a.collectors) == 0 {
		return nil, fmt.Errorf("no collectors to run (check collector filter)")
	}
	return a, nil
}

// CollectorNames lists the built-in collectors.
func CollectorNames() []string {
	return []string{
		string(CollectorTypeLength),
		string(CollectorTypeDuplicates),
		string(CollectorTypeComposition),
	}
}

// AnalysisResult contains the complete analysis output.
type AnalysisResult struct {
	// Results contains findings from each collector.
	Results []*CollectorResult

	// Metadata provides context about the analysis.
	Metadata AnalysisMetadata
}

// AnalysisMetadata provides context about the analysis run.
type AnalysisMetadata struct {
	// ConfigFile is the path to the configuration file used.
	ConfigFile string

	// Sources lists the files that were read, in order.
	Sources []string

	StartTime time.Time
	EndTime   time.Time

	// RecordsProcessed is the total number of records examined.
	RecordsProcessed int
}

// TotalIssues returns the total number of issues across all collectors.
func (r *AnalysisResult) TotalIssues() int {
	total := 0
	for _, result := range r.Results {
		total += len(result.Issues)
	}
	return total
}

// CollectorsWithIssues returns the count of collectors that found issues.
func (r *AnalysisResult) CollectorsWithIssues() int {
	count := 0
	for _, result := range r.Results {
		if result.HasIssues() {
			count++
		}
	}
	return count
}

// Lengths returns the length summary, or nil if the length collector did not run.
func (r *AnalysisResult) Lengths() *LengthStats {
	for _, result := range r.Results {
		if result.Lengths != nil {
			return result.Lengths
		}
	}
	return nil
}

// Analyze reads every record from source and returns the collected results.
// A parse error aborts the run.
func (a *Analyzer) Analyze(ctx context.Context, source parser.Source) (*AnalysisResult, error) {
	result := &AnalysisResult{
		Results: make([]*CollectorResult, 0, len(a.collectors)),
		Metadata: AnalysisMetadata{
			StartTime: time.Now(),
		},
	}

	for _, c := range a.collectors {
		c.Reset()
	}

	seen := make(map[string]bool)

	for {
		rec, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading records: %w", err)
		}

		if !seen[rec.Source] {
			seen[rec.Source] = true
			result.Metadata.Sources = append(result.Metadata.Sources, rec.Source)
		}
		result.Metadata.RecordsProcessed++

		for _, c := range a.collectors {
			if err := c.Process(ctx, rec); err != nil {
				return nil, fmt.Errorf("collector %q: %w", c.Name(), err)
			}
		}
	}

	for _, c := range a.collectors {
		cr, err := c.Finalize(ctx)
		if err != nil {
			return nil, fmt.Errorf("finalizing collector %q: %w", c.Name(), err)
		}
		result.Results = append(result.Results, cr)
	}

	result.Metadata.EndTime = time.Now()
	return result, nil
}
