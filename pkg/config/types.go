// Package config provides configuration loading and validation for seqscan.
package config

import (
	"time"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Inputs lists sequence files or glob patterns. "-" reads stdin.
	Inputs []string `yaml:"inputs"`

	// AlphabetName selects the residue alphabet (nucleotide, protein, raw).
	AlphabetName string `yaml:"alphabet"`

	// MinLength and MaxLength bound record lengths. Zero disables a bound.
	MinLength int `yaml:"min_length,omitempty"`
	MaxLength int `yaml:"max_length,omitempty"`

	// Collectors limits the scan to the named collectors. Empty runs all.
	Collectors []string `yaml:"collectors,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`

	// alphabet is resolved from AlphabetName during validation.
	alphabet *alphabet.Alphabet
}

// Alphabet returns the resolved alphabet. It is nil until the config is validated.
func (c *Config) Alphabet() *alphabet.Alphabet {
	return c.alphabet
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when issues are detected (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every scan.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending scan results.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token string `yaml:"token,omitempty"`

	// Trigger defaults to "on_issues".
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout defaults to 10s.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
