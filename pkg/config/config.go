package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
	"github.com/ccollicutt/seqscan/pkg/stats"
)

// Load reads and validates a configuration file.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := Parse(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Parse reads a configuration file and applies environment overrides
// without validating it. Callers that merge command-line settings call
// Validate afterwards.
func Parse(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.ApplyEnvironmentOverrides()
	return cfg, nil
}

// Validate checks a configuration for errors and resolves the alphabet.
func Validate(cfg *Config) error {
	if len(cfg.Inputs) == 0 {
		return errors.New("inputs: at least one input is required")
	}

	if cfg.AlphabetName == "" {
		cfg.AlphabetName = DefaultAlphabet
	}
	a, err := alphabet.Lookup(cfg.AlphabetName)
	if err != nil {
		return fmt.Errorf("alphabet: %w", err)
	}
	cfg.alphabet = a

	if err := validateLengths(cfg); err != nil {
		return err
	}

	if err := validateCollectors(cfg.Collectors); err != nil {
		return fmt.Errorf("collectors: %w", err)
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateLengths(cfg *Config) error {
	if cfg.MinLength < 0 {
		return fmt.Errorf("min_length must be >= 0, got %d", cfg.MinLength)
	}
	if cfg.MaxLength < 0 {
		return fmt.Errorf("max_length must be >= 0, got %d", cfg.MaxLength)
	}
	if cfg.MaxLength > 0 && cfg.MinLength > cfg.MaxLength {
		return fmt.Errorf("min_length %d exceeds max_length %d", cfg.MinLength, cfg.MaxLength)
	}
	return nil
}

func validateCollectors(names []string) error {
	known := make(map[string]bool)
	for _, n := range stats.CollectorNames() {
		known[n] = true
	}
	for _, n := range names {
		if !known[n] {
			return fmt.Errorf("unknown collector %q (must be one of %s)",
				n, strings.Join(stats.CollectorNames(), ", "))
		}
	}
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnIssues
	case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands a token of the form ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
