package main

import (
	"strings"
	"testing"
)

func TestFormatResponse(t *testing.T) {
	v := map[string]any{"endpoint": "GET /user/info", "depth": 2}

	tests := []struct {
		format  OutputFormat
		contain string
		wantErr bool
	}{
		{FormatJSON, `"endpoint": "GET /user/info"`, false},
		{FormatYAML, "endpoint: GET /user/info", false},
		{FormatHuman, `"endpoint": "GET /user/info"`, false}, // JSON fallback
		{"", `"depth": 2`, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := FormatResponse(v, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatResponse(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			continue
		}
		if err == nil && !strings.Contains(got, tt.contain) {
			t.Errorf("FormatResponse(%q) = %q, missing %q", tt.format, got, tt.contain)
		}
	}
}
