package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"jimpact/internal/config"
	"jimpact/internal/slogutil"
	"jimpact/internal/version"
)

var (
	rootFlag     string
	formatFlag   string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "jimpact",
	Short: "jimpact - Java change impact analysis",
	Long: `jimpact statically analyzes a changed Java class or MyBatis mapper XML
inside a multi-service monorepo and reports which externally reachable HTTP
endpoints, and which sibling repositories, the change impacts.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("jimpact version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "Primary project root")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "json", "Output format (json, yaml, human)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
}

// loadSetup resolves the config for the primary root and builds the
// command logger. CLI log level wins over config; JIMPACT_LOG_LEVEL sits
// between them.
func loadSetup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(rootFlag)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if env := os.Getenv("JIMPACT_LOG_LEVEL"); env != "" {
		level = env
	}
	if logLevelFlag != "" {
		level = logLevelFlag
	}

	return cfg, slogutil.New(level, cfg.Logging.Format, os.Stderr), nil
}
