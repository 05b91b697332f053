package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(">s\nA\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExpandInputs_GlobPattern(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.fa", "b.fa", "c.fq")

	result, err := ExpandInputs([]string{filepath.Join(dir, "*.fa")})
	if err != nil {
		t.Fatalf("ExpandInputs() error = %v", err)
	}
	if len(result) != 2 {
		t.Errorf("ExpandInputs() returned %d files, want 2", len(result))
	}
}

func TestExpandInputs_NoMatch(t *testing.T) {
	pattern := filepath.Join(t.TempDir(), "*.fastq")

	result, err := ExpandInputs([]string{pattern})
	if err != nil {
		t.Fatalf("ExpandInputs() error = %v", err)
	}
	// Kept as a literal so opening it fails with a clear message.
	if len(result) != 1 || result[0] != pattern {
		t.Errorf("ExpandInputs() = %v, want [%s]", result, pattern)
	}
}

func TestExpandInputs_DeduplicatedAndSorted(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "c.fa", "a.fa", "sub/b.fa")

	patterns := []string{
		filepath.Join(dir, "*.fa"),
		filepath.Join(dir, "a.fa"),
		filepath.Join(dir, "sub", "*.fa"),
	}
	result, err := ExpandInputs(patterns)
	if err != nil {
		t.Fatalf("ExpandInputs() error = %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("ExpandInputs() = %v, want 3 files", result)
	}
	for i := 1; i < len(result); i++ {
		if result[i-1] > result[i] {
			t.Errorf("ExpandInputs() result not sorted: %v", result)
		}
	}
}

func TestExpandInputs_Stdin(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.fa")

	result, err := ExpandInputs([]string{filepath.Join(dir, "a.fa"), "-", "-"})
	if err != nil {
		t.Fatalf("ExpandInputs() error = %v", err)
	}
	if len(result) != 2 || result[0] != "-" {
		t.Errorf("ExpandInputs() = %v, want stdin first", result)
	}
}

func TestExpandInputs_InvalidPattern(t *testing.T) {
	if _, err := ExpandInputs([]string{"[invalid"}); err == nil {
		t.Error("ExpandInputs() expected error for invalid pattern")
	}
}
