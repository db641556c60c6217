package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"jimpact/internal/changes"
	"jimpact/internal/javaparse"
)

var (
	methodsDiffPath string
	methodsFilePath string
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "Extract changed method names from a diff",
	Long: `Map a unified diff's changed lines to the enclosing method names of the
post-change file.

Examples:
  jimpact methods --diff change.patch --file src/main/java/com/svc/UserService.java
  git diff | jimpact methods --diff - --file src/main/java/com/svc/UserService.java`,
	RunE: runMethods,
}

func init() {
	methodsCmd.Flags().StringVar(&methodsDiffPath, "diff", "-", "Unified diff file, or - for stdin")
	methodsCmd.Flags().StringVar(&methodsFilePath, "file", "", "Post-change source file for precise span mapping")
	rootCmd.AddCommand(methodsCmd)
}

func runMethods(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSetup()
	if err != nil {
		return err
	}

	diffText, err := readDiff(methodsDiffPath)
	if err != nil {
		return err
	}

	extractor := changes.NewExtractor(javaparse.NewArena(cfg.Analysis.ParseCacheSize), logger)
	names := extractor.ExtractChangedMethods(diffText, methodsFilePath)

	if OutputFormat(formatFlag) == FormatHuman {
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}

	out, err := FormatResponse(map[string][]string{"methods": names}, OutputFormat(formatFlag))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// readDiff loads diff text from a file, or stdin for "-".
func readDiff(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading diff from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading diff: %w", err)
	}
	return string(data), nil
}
