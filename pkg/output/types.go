// Package output renders scan results as text or JSON.
package output

import (
	"time"

	"github.com/ccollicutt/seqscan/pkg/stats"
)

// Report is the complete scan output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary

	// Results contains findings from each collector.
	Results []*stats.CollectorResult

	// Metadata provides context about the scan.
	Metadata Metadata
}

// Summary provides aggregate statistics.
type Summary struct {
	CollectorsRun        int
	CollectorsWithIssues int
	TotalIssues          int

	// RecordsProcessed is the number of records read across all inputs.
	RecordsProcessed int

	// Residues is the total sequence length, when the length collector ran.
	Residues int64
}

// Metadata provides context about the scan.
type Metadata struct {
	// ConfigFile is the configuration used, if any.
	ConfigFile string

	// Sources lists the files that were read.
	Sources []string

	// Alphabet names the residue alphabet records were converted through.
	Alphabet string

	ScannedAt time.Time
	Duration  time.Duration
}

// NewReport creates a Report from analysis results.
func NewReport(result *stats.AnalysisResult, configFile, alphabetName string) *Report {
	report := &Report{
		Results: result.Results,
		Metadata: Metadata{
			ConfigFile: configFile,
			Sources:    result.Metadata.Sources,
			Alphabet:   alphabetName,
			ScannedAt:  result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
		Summary: Summary{
			CollectorsRun:        len(result.Results),
			CollectorsWithIssues: result.CollectorsWithIssues(),
			TotalIssues:          result.TotalIssues(),
			RecordsProcessed:     result.Metadata.RecordsProcessed,
		},
	}

	if ls := result.Lengths(); ls != nil {
		report.Summary.Residues = ls.Residues
	}

	return report
}

// HasIssues returns true if any issues were detected.
func (r *Report) HasIssues() bool {
	return r.Summary.TotalIssues > 0
}
