package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/seqscan/pkg/config"
	"github.com/ccollicutt/seqscan/pkg/parser"
	"github.com/ccollicutt/seqscan/pkg/seqio"
	"github.com/ccollicutt/seqscan/pkg/stats"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a seqscan configuration file without reading any sequences.

Checks:
  - YAML syntax
  - Required fields
  - Alphabet name
  - Length bounds
  - Collector names
  - Webhook URLs and triggers
  - Input file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(commandContext(cmd), configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	collectors := cfg.Collectors
	if len(collectors) == 0 {
		collectors = stats.CollectorNames()
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Inputs:     %d pattern(s)\n", len(cfg.Inputs))
	fmt.Fprintf(out, "  Alphabet:   %s\n", cfg.Alphabet().Name())
	fmt.Fprintf(out, "  Length:     %s\n", describeBounds(cfg.MinLength, cfg.MaxLength))
	fmt.Fprintf(out, "  Collectors: %s\n", strings.Join(collectors, ", "))
	fmt.Fprintf(out, "  Webhooks:   %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		fmt.Fprintf(out, "    %d. %s (%s)\n", i+1, name, wh.Trigger)
	}

	files, err := parser.ExpandInputs(cfg.Inputs)
	if err != nil {
		fmt.Fprintf(out, "\nWarning: Error expanding input patterns: %v\n", err)
		return nil
	}

	var found, missing []string
	for _, f := range files {
		if f != seqio.Stdin {
			if _, err := os.Stat(f); err != nil {
				missing = append(missing, f)
				continue
			}
		}
		found = append(found, f)
	}

	fmt.Fprintf(out, "\nInput files matched: %d\n", len(found))
	for _, f := range found {
		fmt.Fprintf(out, "  - %s\n", f)
	}
	for _, f := range missing {
		fmt.Fprintf(out, "\nWarning: No file matches input %s\n", f)
	}

	return nil
}

// describeBounds renders length bounds where zero means unchecked.
func describeBounds(minLen, maxLen int) string {
	switch {
	case minLen == 0 && maxLen == 0:
		return "unchecked"
	case maxLen == 0:
		return fmt.Sprintf(">= %d", minLen)
	case minLen == 0:
		return fmt.Sprintf("<= %d", maxLen)
	default:
		return fmt.Sprintf("%d..%d", minLen, maxLen)
	}
}
