// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package output encodes reports as JSON, YAML or TOML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Writer handles writing reports to various outputs.
type Writer struct {
	// Indent specifies the indentation for JSON and TOML output (default: 2 spaces)
	Indent int
}

// NewWriter creates a new Writer with default settings.
func NewWriter() *Writer {
	return &Writer{
		Indent: 2,
	}
}

// WriteYAML writes v as YAML to the given writer.
func (w *Writer) WriteYAML(v any, out io.Writer) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// WriteJSON writes v as JSON to the given writer.
func (w *Writer) WriteJSON(v any, out io.Writer) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", w.Indent))

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// WriteTOML writes v as TOML to the given writer. v must encode to a table.
func (w *Writer) WriteTOML(v any, out io.Writer) error {
	encoder := toml.NewEncoder(out)
	encoder.Indent = strings.Repeat(" ", w.Indent)

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}

	return nil
}

// Write writes v in format ("json", "yaml" or "toml").
func (w *Writer) Write(v any, format string, out io.Writer) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return w.WriteYAML(v, out)
	case "json":
		return w.WriteJSON(v, out)
	case "toml":
		return w.WriteTOML(v, out)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFile writes v to a file.
// If format is empty, it is inferred from the file extension.
func (w *Writer) WriteFile(v any, path string, format string) (err error) {
	// Infer format from extension if not specified
	if format == "" {
		format = FormatFromPath(path)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return w.Write(v, format, file)
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// ToString returns v encoded in format.
func (w *Writer) ToString(v any, format string) (string, error) {
	var buf strings.Builder
	if err := w.Write(v, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
