package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/seqscan/pkg/config"
	"github.com/ccollicutt/seqscan/pkg/output"
	"github.com/ccollicutt/seqscan/pkg/parser"
	"github.com/ccollicutt/seqscan/pkg/stats"
	"github.com/ccollicutt/seqscan/pkg/webhook"
)

// ScanOptions holds command-line options for the scan command.
type ScanOptions struct {
	ConfigFile string
	Output     string
	Alphabet   string
	MinLength  int
	MaxLength  int
	Collectors []string
	Paired     bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
	WebhookGzip    bool
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [files...]",
		Short: "Report statistics and issues for sequence files",
		Long: `Read every record of the given FASTA/FASTQ files (or the inputs listed in
the configuration file) and report:
  - Record count, residue count, min/max/mean length and N50
  - Residue composition
  - Duplicate record identifiers
  - Records outside --min-length / --max-length

Files may be gzip, zstd or bzip2 compressed. "-" reads standard input.
Files given on the command line replace the inputs of the config file.

Exit codes:
  0 - No issues found
  1 - Issues found
  2 - Format violation, configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVarP(&opts.Alphabet, "alphabet", "a", config.DefaultAlphabet, "Residue alphabet (nucleotide|protein|raw)")
	cmd.Flags().IntVar(&opts.MinLength, "min-length", 0, "Report records shorter than this")
	cmd.Flags().IntVar(&opts.MaxLength, "max-length", 0, "Report records longer than this (0 = unlimited)")
	cmd.Flags().StringSliceVar(&opts.Collectors, "collector", nil, "Run specific collector(s) only (length|duplicates|composition)")
	cmd.Flags().BoolVar(&opts.Paired, "paired", false, "Read two files as interleaved mate pairs")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")
	cmd.Flags().BoolVar(&opts.WebhookGzip, "webhook-gzip", false, "Gzip the webhook request body")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, opts *ScanOptions) error {
	ctx := commandContext(cmd)

	cfg, err := resolveScanConfig(ctx, cmd, args, opts)
	if err != nil {
		return err
	}

	files, err := parser.ExpandInputs(cfg.Inputs)
	if err != nil {
		return fmt.Errorf("expanding inputs: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no input files (pass files or set inputs in a config file)")
	}

	source, err := openSource(files, cfg, opts.Paired)
	if err != nil {
		return err
	}
	defer source.Close()

	a, err := stats.NewAnalyzer(
		stats.WithLengthBounds(cfg.MinLength, cfg.MaxLength),
		stats.WithDecoder(cfg.Alphabet()),
		stats.WithCollectors(cfg.Collectors),
		stats.WithPairedInput(opts.Paired),
	)
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	logger().Infof("scanning %d file(s) as %s", len(files), cfg.Alphabet().Name())

	result, err := a.Analyze(ctx, source)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if p, ok := source.(*parser.PairedSource); ok {
		logger().Infof("read %d mate pairs", p.Pairs())
	}

	report := output.NewReport(result, opts.ConfigFile, cfg.Alphabet().Name())

	formatter, err := createFormatter(opts.Output, formatOptions(cmd))
	if err != nil {
		return err
	}
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are logged and never fail the scan
	sendWebhooks(ctx, cfg, opts, report)

	if report.HasIssues() {
		ExitCode = 1
	}
	return nil
}

// resolveScanConfig reads the config file, if any, and applies command-line
// overrides. Precedence is flag, then environment, then file, then default.
// Flags only override when set explicitly.
func resolveScanConfig(ctx context.Context, cmd *cobra.Command, args []string, opts *ScanOptions) (*config.Config, error) {
	var cfg *config.Config
	if opts.ConfigFile != "" {
		parsed, err := config.Parse(ctx, opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = parsed
	} else {
		cfg = config.DefaultConfig()
		cfg.ApplyEnvironmentOverrides()
	}

	if len(args) > 0 {
		cfg.Inputs = args
	}

	flags := cmd.Flags()
	if flags.Changed("alphabet") {
		cfg.AlphabetName = opts.Alphabet
	}
	if flags.Changed("min-length") {
		cfg.MinLength = opts.MinLength
	}
	if flags.Changed("max-length") {
		cfg.MaxLength = opts.MaxLength
	}
	if flags.Changed("collector") {
		cfg.Collectors = opts.Collectors
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openSource(files []string, cfg *config.Config, paired bool) (parser.Source, error) {
	if !paired {
		return parser.NewFileSource(files, cfg.Alphabet()), nil
	}
	if len(files) != 2 {
		return nil, fmt.Errorf("--paired needs exactly two files, got %d", len(files))
	}
	return parser.NewPairedSource(
		parser.NewFileSource(files[:1], cfg.Alphabet()),
		parser.NewFileSource(files[1:], cfg.Alphabet()),
	), nil
}

// sendWebhooks sends the report to all configured webhooks.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *ScanOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasIssues()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
			Gzip:    opts.WebhookGzip,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			logger().Noticef("webhook %s: sent (%d, %s)", name, resp.StatusCode, resp.Duration)
		} else {
			logger().Warningf("webhook %s: failed (%v)", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ScanOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire based on trigger and issues.
func shouldFireWebhook(trigger config.WebhookTrigger, hasIssues bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasIssues
	}
}
