package parser

import (
	"context"
)

// Source provides an iterator over sequence records.
// Implementations must be safe for sequential access (not concurrent).
type Source interface {
	// Next returns the next record. The returned Record is owned by the
	// source and is overwritten by the following call; Clone it to keep it.
	// Returns io.EOF when no more records are available.
	Next(ctx context.Context) (*Record, error)

	// Close releases any resources held by the source.
	Close() error
}
