package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
inputs:
  - reads/*.fastq.gz
  - contigs.fa
alphabet: protein
min_length: 50
max_length: 5000
collectors: [length, duplicates]
`
	path := writeTempFile(t, "seqscan.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Inputs) != 2 {
		t.Errorf("Inputs = %d, want 2", len(cfg.Inputs))
	}
	if cfg.Alphabet() != alphabet.Protein {
		t.Errorf("Alphabet() = %v, want protein", cfg.Alphabet().Name())
	}
	if cfg.MinLength != 50 || cfg.MaxLength != 5000 {
		t.Errorf("length bounds = %d..%d, want 50..5000", cfg.MinLength, cfg.MaxLength)
	}
	if len(cfg.Collectors) != 2 {
		t.Errorf("Collectors = %v", cfg.Collectors)
	}
}

func TestLoad_DefaultAlphabet(t *testing.T) {
	path := writeTempFile(t, "seqscan.yaml", "inputs: [a.fa]\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AlphabetName != DefaultAlphabet || cfg.Alphabet() != alphabet.Nucleotide {
		t.Errorf("alphabet = %q, want %q", cfg.AlphabetName, DefaultAlphabet)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/seqscan.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvAlphabet, "raw")
	t.Setenv(EnvInputs, "x.fa, y.fq ,,")

	path := writeTempFile(t, "seqscan.yaml", "inputs: [a.fa]\nalphabet: protein\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Alphabet() != alphabet.Raw {
		t.Errorf("Alphabet() = %s, want raw", cfg.Alphabet().Name())
	}
	if len(cfg.Inputs) != 2 || cfg.Inputs[0] != "x.fa" || cfg.Inputs[1] != "y.fq" {
		t.Errorf("Inputs = %v, want [x.fa y.fq]", cfg.Inputs)
	}
}

func TestLoad_EnvironmentSuppliesInputs(t *testing.T) {
	t.Setenv(EnvInputs, "reads.fq")

	path := writeTempFile(t, "seqscan.yaml", "alphabet: nucleotide\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Inputs) != 1 || cfg.Inputs[0] != "reads.fq" {
		t.Errorf("Inputs = %v", cfg.Inputs)
	}
}

func TestDefaultConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvAlphabet, "protein")
	t.Setenv(EnvInputs, "a.fa,b.fa")

	cfg := DefaultConfig()
	cfg.ApplyEnvironmentOverrides()

	if cfg.AlphabetName != "protein" {
		t.Errorf("AlphabetName = %q, want protein", cfg.AlphabetName)
	}
	if len(cfg.Inputs) != 2 || cfg.Inputs[1] != "b.fa" {
		t.Errorf("Inputs = %v, want [a.fa b.fa]", cfg.Inputs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{Inputs: []string{"a.fa"}}, ""},
		{"no inputs", Config{}, "inputs"},
		{"unknown alphabet", Config{Inputs: []string{"a.fa"}, AlphabetName: "rna"}, "alphabet"},
		{"negative min", Config{Inputs: []string{"a.fa"}, MinLength: -1}, "min_length"},
		{"negative max", Config{Inputs: []string{"a.fa"}, MaxLength: -1}, "max_length"},
		{"min above max", Config{Inputs: []string{"a.fa"}, MinLength: 10, MaxLength: 5}, "exceeds"},
		{"max only", Config{Inputs: []string{"a.fa"}, MaxLength: 5}, ""},
		{"unknown collector", Config{Inputs: []string{"a.fa"}, Collectors: []string{"gc"}}, "unknown collector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_DoesNotValidate(t *testing.T) {
	path := writeTempFile(t, "seqscan.yaml", "alphabet: protein\nmin_length: 5\n")
	cfg, err := Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Alphabet() != nil {
		t.Error("Parse() should not resolve the alphabet")
	}

	cfg.Inputs = []string{"from-args.fa"}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Alphabet() != alphabet.Protein || cfg.MinLength != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.AlphabetName != DefaultAlphabet {
		t.Errorf("AlphabetName = %q, want %q", cfg.AlphabetName, DefaultAlphabet)
	}
	if cfg.Inputs == nil || len(cfg.Inputs) != 0 {
		t.Errorf("Inputs = %v, want empty", cfg.Inputs)
	}
	if cfg.Alphabet() != nil {
		t.Error("Alphabet() should be nil before validation")
	}
}

func TestValidate_Webhook(t *testing.T) {
	tests := []struct {
		name    string
		wh      WebhookConfig
		wantErr bool
	}{
		{"https", WebhookConfig{URL: "https://example.com/hook"}, false},
		{"http", WebhookConfig{URL: "http://localhost:8080/hook"}, false},
		{"missing url", WebhookConfig{}, true},
		{"bad scheme", WebhookConfig{URL: "ftp://example.com"}, true},
		{"no host", WebhookConfig{URL: "https:///path"}, true},
		{"bad trigger", WebhookConfig{URL: "https://example.com", Trigger: "sometimes"}, true},
		{"always", WebhookConfig{URL: "https://example.com", Trigger: WebhookTriggerAlways}, false},
		{"never", WebhookConfig{URL: "https://example.com", Trigger: WebhookTriggerNever}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Inputs: []string{"a.fa"}, Webhooks: []WebhookConfig{tt.wh}}
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Webhook_Defaults(t *testing.T) {
	cfg := &Config{
		Inputs:   []string{"a.fa"},
		Webhooks: []WebhookConfig{{URL: "https://example.com/hook"}},
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerOnIssues {
		t.Errorf("Trigger = %q, want on_issues", cfg.Webhooks[0].Trigger)
	}
	if cfg.Webhooks[0].Timeout != DefaultWebhookTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Webhooks[0].Timeout, DefaultWebhookTimeout)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_TOKEN", "secret-value")

	tests := []struct {
		input string
		want  string
	}{
		{"${TEST_WEBHOOK_TOKEN}", "secret-value"},
		{"$TEST_WEBHOOK_TOKEN", "secret-value"},
		{"plain-value", "plain-value"},
		{"", ""},
		{"${NONEXISTENT_VAR}", ""},
	}

	for _, tt := range tests {
		got := expandEnvVar(tt.input)
		if got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoad_WithWebhooks(t *testing.T) {
	t.Setenv("LAB_TOKEN", "abc")

	content := `
inputs: [a.fa]
webhooks:
  - name: lab
    url: "https://example.com/webhook"
    token: ${LAB_TOKEN}
    trigger: on_issues
    timeout: 30s
  - url: "https://backup.example.com/webhook"
    trigger: always
`
	path := writeTempFile(t, "seqscan.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Webhooks) != 2 {
		t.Fatalf("Webhooks = %d, want 2", len(cfg.Webhooks))
	}
	if cfg.Webhooks[0].Token != "abc" {
		t.Errorf("Webhook[0].Token = %q, want expanded value", cfg.Webhooks[0].Token)
	}
	if cfg.Webhooks[0].Timeout != 30*time.Second {
		t.Errorf("Webhook[0].Timeout = %v, want 30s", cfg.Webhooks[0].Timeout)
	}
	if cfg.Webhooks[1].Trigger != WebhookTriggerAlways {
		t.Errorf("Webhook[1].Trigger = %v, want %v", cfg.Webhooks[1].Trigger, WebhookTriggerAlways)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := &Config{Inputs: []string{"reads.fq"}, AlphabetName: "nucleotide", MinLength: 20}
	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	path := writeTempFile(t, "seqscan.yaml", string(data))
	loaded, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v\n%s", err, data)
	}
	if loaded.MinLength != 20 || loaded.Inputs[0] != "reads.fq" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
