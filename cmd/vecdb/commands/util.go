package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/Zereker/vecdb/pkg/vector"
)

// printResponse writes the response body to out, indented when it is JSON.
// A non-2xx status is returned as an error after the body is printed.
func printResponse(out io.Writer, resp *vector.Response) error {
	raw := resp.Raw()

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err == nil {
		raw = buf.Bytes()
	}
	if len(raw) > 0 {
		fmt.Fprintln(out, string(raw))
	}

	if !resp.IsSuccessful() {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}

// loadRecords loads records from a YAML or JSON file. Records without an id
// get a generated one.
func loadRecords(path string) ([]vector.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var records []vector.Record
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no records in %s", path)
	}

	for i := range records {
		if records[i].ID == "" {
			records[i].ID = newID("vec")
		}
	}
	return records, nil
}

func newID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String()[:8])
}

// parseVector parses "0.1,0.2,0.3".
func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	vec := make([]float32, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", p, err)
		}
		vec = append(vec, float32(f))
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("vector is empty")
	}
	return vec, nil
}

// parseFilter parses a JSON metadata filter; empty means no filter.
func parseFilter(s string) (map[string]any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var filter map[string]any
	if err := json.Unmarshal([]byte(s), &filter); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return filter, nil
}
