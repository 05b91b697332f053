// Package stats computes summary statistics and quality checks over
// sequence records.
package stats

import (
	"time"
)

// CollectorType enumerates the available collectors.
type CollectorType string

const (
	CollectorTypeLength      CollectorType = "length"
	CollectorTypeDuplicates  CollectorType = "duplicates"
	CollectorTypeComposition CollectorType = "composition"
)

// IssueType categorizes detected issues.
type IssueType string

const (
	// IssueTypeTooShort indicates a record below the minimum length.
	IssueTypeTooShort IssueType = "too_short"

	// IssueTypeTooLong indicates a record above the maximum length.
	IssueTypeTooLong IssueType = "too_long"

	// IssueTypeDuplicateID indicates an identifier seen more than once.
	IssueTypeDuplicateID IssueType = "duplicate_id"
)

// CollectorResult contains the output of a single collector.
type CollectorResult struct {
	// Name is the collector name.
	Name string

	// Type indicates which collector produced the result.
	Type CollectorType

	// Issues contains all detected problems.
	Issues []Issue

	// Lengths is set by the length collector.
	Lengths *LengthStats `json:",omitempty"`

	// Composition maps each residue to its count. Set by the composition collector.
	Composition map[string]int64 `json:",omitempty"`

	// Stats provides execution statistics.
	Stats CollectorStats
}

// HasIssues returns true if any issues were detected.
func (r *CollectorResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// CollectorStats contains execution statistics for a collector.
type CollectorStats struct {
	RecordsProcessed int
	StartTime        time.Time
	EndTime          time.Time
}

// LengthStats summarizes sequence lengths.
type LengthStats struct {
	Records  int
	Residues int64
	Min      int
	Max      int
	Mean     float64
	N50      int
}

// Issue represents a single detected problem.
type Issue struct {
	Type        IssueType
	Description string
	Context     IssueContext
}

// IssueContext locates an issue in the input.
type IssueContext struct {
	// RecordID is the identifier of the offending record.
	RecordID string

	// Source and Index locate the record.
	Source string
	Index  int

	// Length and Limit are set for length issues.
	Length int `json:",omitempty"`
	Limit  int `json:",omitempty"`

	// FirstSource and FirstIndex locate the earlier record with the same ID.
	FirstSource string `json:",omitempty"`
	FirstIndex  int    `json:",omitempty"`
}
