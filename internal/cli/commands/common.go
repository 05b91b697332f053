package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/ccollicutt/seqscan/pkg/output"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

func logger() commonlog.Logger {
	return commonlog.GetLogger("seqscan.cli")
}

// commandContext returns the command context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// formatOptions reads the persistent --verbose and --quiet flags. Both are
// absent when a command runs without the root.
func formatOptions(cmd *cobra.Command) output.FormatOptions {
	verbose, _ := cmd.Flags().GetCount("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return output.FormatOptions{Verbose: verbose > 0, Quiet: quiet}
}

func createFormatter(name string, opts output.FormatOptions) (output.Formatter, error) {
	switch name {
	case "text":
		return output.NewTextFormatter(opts), nil
	case "json":
		return output.NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", name)
	}
}
