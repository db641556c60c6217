package slogutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewRespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "json", &buf)

	logger.Info("dropped")
	logger.Warn("kept", "k", "v")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info record passed a warn-level logger")
	}
	if !strings.Contains(out, `"msg":"kept"`) {
		t.Errorf("output %q is not JSON formatted", out)
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	// Must not panic and must stay silent at every level.
	logger := Discard()
	logger.Error("nothing")
	if logger.Enabled(nil, slog.LevelError) {
		t.Error("discard logger reports error level enabled")
	}
}
