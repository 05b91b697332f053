// Package cli provides the command-line interface for seqscan.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/ccollicutt/seqscan/internal/cli/commands"
	"github.com/ccollicutt/seqscan/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(os.Args[1:])
}

func run(args []string) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)

	if name, ok := pluginCandidate(rootCmd, args); ok {
		if pluginPath, err := plugins.FindPlugin(name); err == nil {
			return plugins.Execute(pluginPath, args[1:])
		}
	}

	commands.ExitCode = 0
	if err := rootCmd.Execute(); err != nil {
		if name, ok := pluginCandidate(rootCmd, args); ok {
			_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(name))
			return 2
		}
		// SilenceErrors keeps cobra from printing this itself
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// pluginCandidate reports whether the first argument names a command the
// root does not know.
func pluginCandidate(rootCmd *cobra.Command, args []string) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	name := args[0]
	if name == "" || name[0] == '-' {
		return "", false
	}
	return name, !isBuiltinCommand(rootCmd, name)
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var verbose int
	var quiet bool

	rootCmd := &cobra.Command{
		Use:   "seqscan",
		Short: "Read, check and convert FASTA and FASTQ files",
		Long: `seqscan streams FASTA and FASTQ files, detecting the format from the first
byte and decompressing gzip, zstd and bzip2 input transparently.

It reports record counts, length statistics (including N50), residue
composition, duplicate identifiers and records outside length bounds, and
converts records between the two formats.

Exit codes:
  0 - No issues found
  1 - Issues found
  2 - Format violation, configuration or runtime error

PLUGINS:
  Unknown commands are looked up as standalone binaries named
  seqscan-<command>, in the directory of the seqscan binary, then
  ~/.seqscan/plugins/, then PATH.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(logVerbosity(verbose, quiet), nil)
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "More detail in reports and logs (repeat for debug logging)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Summary output only, errors only in logs")

	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewConvertCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}

// logVerbosity maps the flags to commonlog verbosity: -2 errors only,
// 0 notices, 1 info, 2 debug.
func logVerbosity(verbose int, quiet bool) int {
	if quiet {
		return -2
	}
	return verbose
}
