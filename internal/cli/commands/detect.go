package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
	"github.com/ccollicutt/seqscan/pkg/config"
	"github.com/ccollicutt/seqscan/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	Check       string
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Detect the format, compression and alphabet of a sequence file",
		Long: `Inspect a sequence file and report:
  - Format (FASTA or FASTQ, from the first byte)
  - Compression (gzip, zstd, bzip2 or none)
  - Length range of the sampled records
  - The most likely residue alphabet, with confidence

Optionally generates a starter config file with --write-config.

Example:
  seqscan detect reads.fastq.gz
  seqscan detect --sample 1000 contigs.fa
  seqscan detect --check protein proteome.fa
  seqscan detect -w seqscan.yaml reads.fq`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of records to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show confidence for every candidate alphabet")
	cmd.Flags().StringVar(&opts.Check, "check", "", "Count residues rejected by this alphabet")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	path := args[0]
	ctx := commandContext(cmd)

	detectorOpts := []detector.Option{detector.WithSampleSize(opts.SampleSize)}
	if opts.Check != "" {
		a, err := alphabet.Lookup(opts.Check)
		if err != nil {
			return err
		}
		detectorOpts = append(detectorOpts, detector.WithAlphabet(a))
	}

	result, err := detector.New(detectorOpts...).DetectFromFile(ctx, path)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	out := cmd.OutOrStdout()

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, path, opts.WriteConfig); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote starter config to: %s\n\n", opts.WriteConfig)
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, path, opts)
	case "text":
		return outputDetectText(out, result, path, opts)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, path string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Sequence File Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Format: %s\n", result.Format)
	fmt.Fprintf(w, "Compression: %s\n", result.Compression)
	fmt.Fprintf(w, "Records sampled: %d\n", result.SampledRecords)
	if result.SampledRecords > 0 {
		fmt.Fprintf(w, "Length: %d..%d (mean %.1f)\n", result.MinLength, result.MaxLength, result.MeanLength)
	}
	fmt.Fprintln(w)

	best := result.BestMatch()
	if best == nil {
		fmt.Fprintln(w, "No residues sampled; alphabet unknown.")
	} else {
		fmt.Fprintf(w, "Alphabet: %s\n", result.Guess)
		fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d residues in %s core set)\n",
			best.Confidence*100, best.Matched, result.SampledResidues, best.Candidate.Name)
	}

	if opts.Check != "" {
		if result.Invalid == 0 {
			fmt.Fprintf(w, "All sampled residues accepted by %s\n", opts.Check)
		} else {
			fmt.Fprintf(w, "WARNING: %d residue(s) rejected by %s, first %s\n", result.Invalid, opts.Check, result.FirstInvalid)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Configuration snippet ---")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "alphabet: %s\n", result.Guess)
	fmt.Fprintln(w)

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- All candidates ---")
		for i, m := range result.Matches {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence, threshold %.0f%%)\n",
				i+1, m.Candidate.Name, m.Confidence*100, m.Candidate.Threshold*100)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a candidate alphabet in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Matched    int64   `json:"matched"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File            string      `json:"file"`
	Format          string      `json:"format"`
	Compression     string      `json:"compression"`
	SampledRecords  int         `json:"sampled_records"`
	SampledResidues int64       `json:"sampled_residues"`
	MinLength       int         `json:"min_length"`
	MaxLength       int         `json:"max_length"`
	MeanLength      float64     `json:"mean_length"`
	Alphabet        string      `json:"alphabet"`
	Matches         []JSONMatch `json:"matches"`
	Invalid         int64       `json:"invalid,omitempty"`
	FirstInvalid    string      `json:"first_invalid,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, path string, opts *DetectOptions) error {
	out := JSONOutput{
		File:            path,
		Format:          result.Format.String(),
		Compression:     string(result.Compression),
		SampledRecords:  result.SampledRecords,
		SampledResidues: result.SampledResidues,
		MinLength:       result.MinLength,
		MaxLength:       result.MaxLength,
		MeanLength:      result.MeanLength,
		Alphabet:        result.Guess,
		Matches:         make([]JSONMatch, 0),
		Invalid:         result.Invalid,
		FirstInvalid:    result.FirstInvalid,
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}
	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Candidate.Name,
			Confidence: m.Confidence,
			Matched:    m.Matched,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig writes a config for path using the detected alphabet.
func writeStarterConfig(result *detector.DetectionResult, path, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	content, err := generateStarterConfig(result, path)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateStarterConfig renders a commented YAML config.
func generateStarterConfig(result *detector.DetectionResult, path string) ([]byte, error) {
	input := path
	if abs, err := filepath.Abs(path); err == nil {
		input = abs
	}

	body, err := config.Marshal(&config.Config{
		Inputs:       []string{input},
		AlphabetName: result.Guess,
	})
	if err != nil {
		return nil, err
	}

	header := fmt.Sprintf(`# seqscan configuration
# Generated by: seqscan detect
# Detected: %s, %s compression, %s alphabet
#
# Optional settings:
#   min_length: 50        # report records shorter than this
#   max_length: 10000     # report records longer than this
#   collectors: [length, duplicates, composition]
#   webhooks:
#     - url: https://example.com/hook
#       trigger: on_issues

`, result.Format, result.Compression, result.Guess)

	return append([]byte(header), body...), nil
}
