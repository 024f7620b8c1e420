// Package reports saves inspect results as timestamped JSON files.
//
// Commands use this package when --save is set. Files go to the "reports/"
// directory in the current working directory unless another one is given.
package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultDir = "reports"

// WriteJSON writes data into DefaultDir, stamped with the current UTC time.
func WriteJSON(data any, prefix string) (string, error) {
	return WriteJSONTo(DefaultDir, data, prefix, time.Now())
}

// WriteJSONTo pretty-prints data into dir as {prefix}-{YYYYMMDD-HHMMSS}.json
// and returns the path written.
func WriteJSONTo(dir string, data any, prefix string, now time.Time) (string, error) {
	prefix = sanitize(prefix)
	if prefix == "" {
		prefix = "report"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	ts := now.UTC().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", prefix, ts))

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}

// Prefix builds a file prefix from a kind and a value such as a signature,
// keeping the first 8 characters of the value.
func Prefix(kind, value string) string {
	if len(value) > 8 {
		value = value[:8]
	}
	if value == "" {
		return kind
	}
	return kind + "-" + value
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
