package config

import (
	"os"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultAlphabet       = "nucleotide"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvInputs   = "SEQSCAN_INPUTS"
	EnvAlphabet = "SEQSCAN_ALPHABET"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Inputs:       []string{},
		AlphabetName: DefaultAlphabet,
	}
}

// ApplyEnvironmentOverrides applies SEQSCAN_ALPHABET and SEQSCAN_INPUTS to
// the config. Parse calls it; callers building a config without a file call
// it on DefaultConfig.
func (c *Config) ApplyEnvironmentOverrides() {
	if name := os.Getenv(EnvAlphabet); name != "" {
		c.AlphabetName = name
	}

	// Comma-separated list replaces the configured inputs
	if inputs := os.Getenv(EnvInputs); inputs != "" {
		c.Inputs = c.Inputs[:0]
		for _, in := range strings.Split(inputs, ",") {
			if in = strings.TrimSpace(in); in != "" {
				c.Inputs = append(c.Inputs, in)
			}
		}
	}
}
