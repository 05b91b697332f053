package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ccollicutt/seqscan/pkg/stats"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "seqscan: %d records, %d collectors with issues, %d total issues\n",
		report.Summary.RecordsProcessed,
		report.Summary.CollectorsWithIssues,
		report.Summary.TotalIssues)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== seqscan Report ===")
	fmt.Fprintln(w)

	for _, result := range report.Results {
		f.formatResult(result, w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d records, %d collectors with issues, %d total issues\n",
		report.Summary.RecordsProcessed,
		report.Summary.CollectorsWithIssues,
		report.Summary.TotalIssues)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Sources: %s\n", strings.Join(report.Metadata.Sources, ", "))
		if report.Metadata.Alphabet != "" {
			fmt.Fprintf(w, "Alphabet: %s\n", report.Metadata.Alphabet)
		}
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	_, err := fmt.Fprintln(w)
	return err
}

func (f *TextFormatter) formatResult(result *stats.CollectorResult, w io.Writer) {
	fmt.Fprintf(w, "[%s] %s\n", strings.ToUpper(string(result.Type)), result.Name)

	if ls := result.Lengths; ls != nil {
		fmt.Fprintf(w, "  Records: %d  Residues: %d\n", ls.Records, ls.Residues)
		if ls.Records > 0 {
			fmt.Fprintf(w, "  Min: %d  Max: %d  Mean: %.1f  N50: %d\n", ls.Min, ls.Max, ls.Mean, ls.N50)
		}
	}

	if len(result.Composition) > 0 {
		f.formatComposition(result.Composition, w)
	}

	if !result.HasIssues() {
		if result.Type != stats.CollectorTypeComposition {
			fmt.Fprintln(w, "  No issues detected")
		}
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "  Found: %d issue(s)\n", len(result.Issues))
	for i := range result.Issues {
		f.formatIssue(&result.Issues[i], w)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatComposition(comp map[string]int64, w io.Writer) {
	keys := make([]string, 0, len(comp))
	var total int64
	for k, n := range comp {
		keys = append(keys, k)
		total += n
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %d (%.1f%%)\n", k, comp[k], 100*float64(comp[k])/float64(total))
	}
}

func (f *TextFormatter) formatIssue(issue *stats.Issue, w io.Writer) {
	ctx := issue.Context
	switch issue.Type {
	case stats.IssueTypeTooShort:
		fmt.Fprintf(w, "  - %s: length %d below minimum %d\n", ctx.RecordID, ctx.Length, ctx.Limit)
	case stats.IssueTypeTooLong:
		fmt.Fprintf(w, "  - %s: length %d above maximum %d\n", ctx.RecordID, ctx.Length, ctx.Limit)
	case stats.IssueTypeDuplicateID:
		fmt.Fprintf(w, "  - %s: duplicate (first seen %s record %d)\n", ctx.RecordID, ctx.FirstSource, ctx.FirstIndex)
	default:
		fmt.Fprintf(w, "  - %s\n", issue.Description)
	}

	if f.opts.Verbose && ctx.Source != "" {
		fmt.Fprintf(w, "    Source: %s record %d\n", ctx.Source, ctx.Index)
	}
}
