package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
	"github.com/ccollicutt/seqscan/pkg/config"
	"github.com/ccollicutt/seqscan/pkg/detector"
	"github.com/ccollicutt/seqscan/pkg/seqio"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose    bool
	SampleSize int
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <config-file>",
		Short: "Diagnose common configuration issues",
		Long: `Diagnose common configuration issues.

This command checks your configuration file for common problems:
- Config file syntax and structure
- Input file existence and accessibility
- Sequence format and alphabet against a sample of each input
- Length bounds against the sampled lengths
- Webhook configuration (and connectivity with -v)

Example:
  seqscan diagnose seqscan.yaml
  seqscan diagnose -v seqscan.yaml  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = formatOptions(cmd).Verbose
			return runDiagnose(commandContext(cmd), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of records to sample per input file")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, configPath string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Check config file existence
	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == "error" {
		return finishDiagnostics(w, results, opts)
	}

	// 2. Parse config file
	cfg, result := checkConfigParseable(configPath)
	results = append(results, result)
	if result.Status == "error" {
		return finishDiagnostics(w, results, opts)
	}

	// Tokens are expanded during validation
	rawTokens := make([]string, len(cfg.Webhooks))
	for i, wh := range cfg.Webhooks {
		rawTokens[i] = wh.Token
	}

	// 3. Validate settings
	results = append(results, checkConfigValid(cfg))

	// 4. Check inputs
	inputResults, files := checkInputs(cfg)
	results = append(results, inputResults...)

	// 5. Sample each input against the configured alphabet and bounds
	if cfg.Alphabet() != nil {
		results = append(results, checkSequences(ctx, cfg, files, opts)...)
	}

	// 6. Check webhooks configuration
	results = append(results, checkWebhooks(cfg, rawTokens, opts)...)

	return finishDiagnostics(w, results, opts)
}

func finishDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) error {
	if printDiagnostics(w, results, opts) > 0 {
		ExitCode = 1
	}
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'seqscan detect <file> --write-config seqscan.yaml' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Config file is empty"
		result.Suggests = []string{
			"Use 'seqscan detect <file> --write-config seqscan.yaml' to generate a starter config",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Parse(context.Background(), path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Inputs: %d", len(cfg.Inputs)),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

func checkConfigValid(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config Settings",
	}

	if err := config.Validate(cfg); err != nil {
		result.Status = "error"
		result.Message = err.Error()
		switch {
		case strings.HasPrefix(err.Error(), "inputs"):
			result.Suggests = []string{"Add an inputs section, e.g. inputs: [reads/*.fastq.gz]"}
		case strings.HasPrefix(err.Error(), "alphabet"):
			result.Suggests = []string{"Use 'seqscan detect <file>' to find the alphabet"}
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Alphabet: %s, length: %s", cfg.Alphabet().Name(), describeBounds(cfg.MinLength, cfg.MaxLength))
	return result
}

// checkInputs reports on every input pattern and returns the readable files.
func checkInputs(cfg *config.Config) ([]DiagnosticResult, []string) {
	results := []DiagnosticResult{}
	var files []string

	if len(cfg.Inputs) == 0 {
		return results, nil
	}

	for _, input := range cfg.Inputs {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Input: %s", input),
		}

		switch {
		case input == seqio.Stdin:
			result.Status = "ok"
			result.Message = "Standard input (not sampled)"

		case strings.ContainsAny(input, "*?["):
			matches, err := filepath.Glob(input)
			if err != nil {
				result.Status = "error"
				result.Message = fmt.Sprintf("Invalid glob pattern: %v", err)
			} else if len(matches) == 0 {
				result.Status = "warning"
				result.Message = "Glob pattern matches no files"
				result.Suggests = []string{
					"Check if the sequence files exist at this path",
					"Verify the glob pattern syntax",
				}
			} else {
				result.Status = "ok"
				result.Message = fmt.Sprintf("Matches %d file(s)", len(matches))
				result.Details = append(result.Details, matches...)
				files = append(files, matches...)
			}

		default:
			info, err := os.Stat(input)
			if os.IsNotExist(err) {
				result.Status = "error"
				result.Message = "File does not exist"
				result.Suggests = []string{"Check if the input path is correct"}
			} else if err != nil {
				result.Status = "error"
				result.Message = fmt.Sprintf("Cannot access file: %v", err)
				result.Suggests = []string{"Check file permissions"}
			} else if info.IsDir() {
				result.Status = "error"
				result.Message = "Path is a directory, not a file"
				result.Suggests = []string{
					"Use a glob pattern to match files in directory",
					"Example: reads/*.fastq.gz",
				}
			} else if info.Size() == 0 {
				result.Status = "error"
				result.Message = "File is empty (0 bytes)"
				result.Suggests = []string{"An empty input is reported as a format violation by scan"}
			} else {
				result.Status = "ok"
				result.Message = fmt.Sprintf("File exists (%d bytes)", info.Size())
				files = append(files, input)
			}
		}

		results = append(results, result)
	}

	if len(files) == 0 {
		results = append(results, DiagnosticResult{
			Check:   "Input Files Summary",
			Status:  "error",
			Message: "No readable input files found",
			Suggests: []string{
				"Ensure at least one sequence file exists and is readable",
			},
		})
	}

	return results, files
}

// checkSequences samples each file with the configured alphabet.
func checkSequences(ctx context.Context, cfg *config.Config, files []string, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}
	d := detector.New(
		detector.WithSampleSize(opts.SampleSize),
		detector.WithAlphabet(cfg.Alphabet()),
	)
	configured := cfg.Alphabet().Name()

	for _, file := range files {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Sequences: %s", filepath.Base(file)),
		}

		det, err := d.DetectFromFile(ctx, file)
		if err != nil {
			result.Status = "error"
			result.Message = fmt.Sprintf("Cannot read records: %v", err)
			result.Suggests = []string{
				"Check that the file is FASTA (starts with '>') or FASTQ (starts with '@')",
				"Compressed files must be gzip, zstd or bzip2",
			}
			results = append(results, result)
			continue
		}

		result.Details = []string{
			fmt.Sprintf("Format: %s (%s compression)", det.Format, det.Compression),
			fmt.Sprintf("Records sampled: %d", det.SampledRecords),
		}
		if det.SampledRecords > 0 {
			result.Details = append(result.Details,
				fmt.Sprintf("Length: %d..%d", det.MinLength, det.MaxLength))
		}

		warnings := []string{}
		if det.Guess != configured && configured != alphabet.Raw.Name() && det.BestMatch() != nil {
			warnings = append(warnings, fmt.Sprintf("Residues look like %s, configured alphabet is %s", det.Guess, configured))
		}
		if cfg.MinLength > 0 && det.SampledRecords > 0 && det.MaxLength < cfg.MinLength {
			warnings = append(warnings, fmt.Sprintf("Every sampled record is shorter than min_length %d", cfg.MinLength))
		}
		if cfg.MaxLength > 0 && det.SampledRecords > 0 && det.MinLength > cfg.MaxLength {
			warnings = append(warnings, fmt.Sprintf("Every sampled record is longer than max_length %d", cfg.MaxLength))
		}

		switch {
		case det.Invalid > 0:
			result.Status = "error"
			result.Message = fmt.Sprintf("%d sampled residue(s) not in the %s alphabet", det.Invalid, configured)
			result.Details = append(result.Details, "First: "+det.FirstInvalid)
			result.Suggests = []string{
				fmt.Sprintf("Detected alphabet: %s", det.Guess),
				"Set alphabet: raw to accept any byte",
			}
		case len(warnings) > 0:
			result.Status = "warning"
			result.Message = fmt.Sprintf("%d warning(s)", len(warnings))
			result.Details = append(warnings, result.Details...)
		default:
			result.Status = "ok"
			result.Message = fmt.Sprintf("%s, %d record(s) sampled", det.Format, det.SampledRecords)
		}

		results = append(results, result)
	}

	return results
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) int {
	fmt.Fprintln(w, "=== seqscan Configuration Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running a scan.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nConfiguration is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nConfiguration looks good!")
	}

	return errCount
}

// checkWebhooks reports on each webhook. rawTokens holds the tokens as
// written in the file, before environment expansion.
func checkWebhooks(cfg *config.Config, rawTokens []string, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check: fmt.Sprintf("Webhook: %s", name),
		}

		issues := []string{}
		warnings := []string{}

		if wh.URL == "" {
			issues = append(issues, "Missing url")
		} else {
			u, err := url.Parse(wh.URL)
			if err != nil {
				issues = append(issues, fmt.Sprintf("Invalid URL: %v", err))
			} else if u.Scheme != "http" && u.Scheme != "https" {
				issues = append(issues, fmt.Sprintf("URL scheme must be http or https, got %q", u.Scheme))
			} else if u.Host == "" {
				issues = append(issues, "URL must have a host")
			}
		}

		switch wh.Trigger {
		case "", config.WebhookTriggerOnIssues, config.WebhookTriggerAlways, config.WebhookTriggerNever:
		default:
			issues = append(issues, fmt.Sprintf("Invalid trigger %q (use on_issues, always, or never)", wh.Trigger))
		}

		if i < len(rawTokens) {
			if v := envReference(rawTokens[i]); v != "" {
				if _, ok := os.LookupEnv(v); !ok {
					warnings = append(warnings, fmt.Sprintf("Token refers to unset environment variable %s", v))
				}
			}
		}

		if len(issues) > 0 {
			result.Status = "error"
			result.Message = fmt.Sprintf("%d configuration issue(s)", len(issues))
			result.Details = issues
		} else if len(warnings) > 0 {
			result.Status = "warning"
			result.Message = fmt.Sprintf("%d warning(s)", len(warnings))
			result.Details = warnings
		} else {
			trigger := wh.Trigger
			if trigger == "" {
				trigger = config.WebhookTriggerOnIssues
			}
			result.Status = "ok"
			result.Message = fmt.Sprintf("Trigger: %s", trigger)
			if opts.Verbose {
				result.Details = []string{
					fmt.Sprintf("URL: %s", wh.URL),
					fmt.Sprintf("Timeout: %s", wh.Timeout),
				}
				if wh.Token != "" {
					result.Details = append(result.Details, "Token: configured")
				}
			}
		}

		results = append(results, result)
	}

	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			if wh.URL == "" {
				continue
			}

			name := wh.Name
			if name == "" {
				name = wh.URL
			}

			result := checkWebhookConnectivity(wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, result)
		}
	}

	return results
}

// envReference returns VAR for a token written as ${VAR} or $VAR.
func envReference(token string) string {
	if strings.HasPrefix(token, "${") && strings.HasSuffix(token, "}") {
		return token[2 : len(token)-1]
	}
	if strings.HasPrefix(token, "$") && !strings.HasPrefix(token, "${") {
		return token[1:]
	}
	return ""
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// A HEAD request only checks that the endpoint is reachable
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may require POST method (will work during actual webhook send)",
			"Check authentication if using a token",
		}
	}

	return result
}
