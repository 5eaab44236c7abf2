package template

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialization format for templates.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat converts a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Write encodes t to w.
func Write(w io.Writer, t Template, f Format) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// Read decodes a template from r. Items without props get an empty map so a
// decoded layout is ready for the canvas.
func Read(r io.Reader, f Format) (Template, error) {
	var t Template
	switch f {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&t); err != nil {
			return Template{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&t); err != nil {
			return Template{}, fmt.Errorf("decode json: %w", err)
		}
	}
	for i := range t.Layout {
		if t.Layout[i].Props == nil {
			t.Layout[i].Props = map[string]any{}
		}
	}
	return t, nil
}

// Export writes t to a file, choosing the format from the extension.
func Export(t Template, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, t, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Import reads a template file, choosing the format from the extension.
func Import(path string) (Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return Template{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
