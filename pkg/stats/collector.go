package stats

import (
	"context"

	"github.com/ccollicutt/seqscan/pkg/parser"
)

// Collector consumes records one at a time and reports a result at the end.
type Collector interface {
	// Name returns the collector name for reporting.
	Name() string

	// Type returns the collector type.
	Type() CollectorType

	// Process handles a single record. The record is only valid for the
	// duration of the call.
	Process(ctx context.Context, rec *parser.Record) error

	// Finalize completes collection and returns the result.
	Finalize(ctx context.Context) (*CollectorResult, error)

	// Reset clears internal state for reuse.
	Reset()
}
