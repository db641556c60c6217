package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete jimpact configuration.
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Projects []ProjectConfig `json:"projects" mapstructure:"projects"`
	Analysis AnalysisConfig  `json:"analysis" mapstructure:"analysis"`
	Logging  LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// ProjectConfig identifies one sibling repository root.
type ProjectConfig struct {
	Name string `json:"name" mapstructure:"name"`
	Path string `json:"path" mapstructure:"path"`
}

// AnalysisConfig contains call-graph traversal limits and scan exclusions.
type AnalysisConfig struct {
	MaxTraceDepth    int      `json:"maxTraceDepth" mapstructure:"maxTraceDepth"`
	MaxCrossRefDepth int      `json:"maxCrossRefDepth" mapstructure:"maxCrossRefDepth"`
	ExcludeDirs      []string `json:"excludeDirs" mapstructure:"excludeDirs"`
	ParseCacheSize   int      `json:"parseCacheSize" mapstructure:"parseCacheSize"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Projects: []ProjectConfig{},
		Analysis: AnalysisConfig{
			MaxTraceDepth:    8,
			MaxCrossRefDepth: 5,
			ExcludeDirs:      []string{"target", "build", "out", "node_modules", ".idea"},
			ParseCacheSize:   4096,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <repoRoot>/.jimpact/config.json.
// A missing config file yields the defaults, not an error.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("repoRoot", ".")
	v.SetDefault("analysis.maxTraceDepth", 8)
	v.SetDefault("analysis.maxCrossRefDepth", 5)
	v.SetDefault("analysis.parseCacheSize", 4096)
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".jimpact"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if len(cfg.Analysis.ExcludeDirs) == 0 {
		cfg.Analysis.ExcludeDirs = DefaultConfig().Analysis.ExcludeDirs
	}

	return &cfg, nil
}

// Save writes the configuration to <repoRoot>/.jimpact/config.json.
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".jimpact")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Analysis.MaxTraceDepth < 1 {
		return &ConfigError{Field: "analysis.maxTraceDepth", Message: "must be at least 1"}
	}
	if c.Analysis.MaxCrossRefDepth < 1 {
		return &ConfigError{Field: "analysis.maxCrossRefDepth", Message: "must be at least 1"}
	}
	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
