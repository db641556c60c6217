package main

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects the response rendering.
type OutputFormat string

const (
	// FormatJSON renders indented JSON.
	FormatJSON OutputFormat = "json"
	// FormatYAML renders YAML.
	FormatYAML OutputFormat = "yaml"
	// FormatHuman renders a per-command plain-text view; commands without
	// one fall back to JSON.
	FormatHuman OutputFormat = "human"
)

// FormatResponse renders v in the requested format.
func FormatResponse(v interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatJSON, FormatHuman, "":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}
