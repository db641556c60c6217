// Package export serializes a run's impact records to gzip-compressed
// JSON, the hand-off artifact consumed by the report-generation and
// persistence collaborators.
package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"jimpact/internal/crossref"
	"jimpact/internal/version"
)

// Run is the exported envelope for one analysis run.
type Run struct {
	RunID       string                  `json:"runId"`
	Version     string                  `json:"version"`
	GeneratedAt string                  `json:"generatedAt"`
	Class       string                  `json:"class,omitempty"`
	Methods     []string                `json:"methods,omitempty"`
	Records     []crossref.ImpactRecord `json:"records"`
}

// Write streams the run as gzip(JSON) to w.
func Write(w io.Writer, run Run) error {
	if run.GeneratedAt == "" {
		run.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if run.Version == "" {
		run.Version = version.Version
	}

	gz := gzip.NewWriter(w)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		_ = gz.Close()
		return err
	}
	return gz.Close()
}

// Read decodes a gzip(JSON) run previously written by Write.
func Read(r io.Reader) (*Run, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = gz.Close() }()

	var run Run
	if err := json.NewDecoder(gz).Decode(&run); err != nil {
		return nil, err
	}
	return &run, nil
}
