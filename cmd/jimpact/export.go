package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"jimpact/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Compress an analysis run for downstream consumers",
	Long: `Read a run's JSON (as produced by crossref) on stdin and write it as
gzip-compressed JSON, the hand-off format for report generation and
persistence.

Examples:
  jimpact crossref com.svc.UserService --method getUserById | jimpact export --out run.json.gz`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "run.json.gz", "Output file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var run export.Run
	if err := json.Unmarshal(data, &run); err != nil {
		// Accept a bare records array too.
		if jsonErr := json.Unmarshal(data, &run.Records); jsonErr != nil {
			return fmt.Errorf("stdin is neither a run envelope nor a records array: %w", err)
		}
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := export.Write(f, run); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d records)\n", exportOut, len(run.Records))
	return nil
}
