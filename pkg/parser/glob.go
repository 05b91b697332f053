package parser

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ccollicutt/seqscan/pkg/seqio"
)

// ExpandInputs expands a list of file paths and glob patterns into a
// deduplicated, sorted list of paths. Patterns that match nothing are kept
// as literal paths so that opening them reports a useful error. The
// standard-input path "-" is kept and placed first.
func ExpandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	stdin := false

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	for _, pattern := range patterns {
		if pattern == seqio.Stdin {
			stdin = true
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}
		for _, match := range matches {
			add(match)
		}
	}

	sort.Strings(result)

	if stdin {
		result = append([]string{seqio.Stdin}, result...)
	}
	return result, nil
}
