package output

import (
	"context"
	"io"
)

// Formatter renders a scan report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds record locations and timing.
	Verbose bool

	// Quiet prints a one-line summary only.
	Quiet bool
}
