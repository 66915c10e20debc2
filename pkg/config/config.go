// Package config provides configuration loading and validation for the
// astra command line. Settings come from an .astra.yaml file, ASTRA_*
// environment variables and built-in defaults, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/yuv008/ASTra/pkg/analyzers/complexity"
	"github.com/yuv008/ASTra/pkg/analyzers/quality"
	"github.com/yuv008/ASTra/pkg/analyzers/security"
	"github.com/yuv008/ASTra/pkg/parser"
	"github.com/yuv008/ASTra/pkg/suggest"
)

// Sentinel validation errors.
var (
	ErrSchemaViolation    = errors.New("config file violates schema")
	ErrUnknownAnalyzer    = errors.New("unknown analyzer")
	ErrUnknownLogLevel    = errors.New("unknown log level")
	ErrUnknownLogFormat   = errors.New("unknown log format")
	ErrInvalidJobs        = errors.New("jobs must not be negative")
	ErrInvalidTimeout     = errors.New("suggest timeout must be positive")
	ErrInvalidSampleRatio = errors.New("sample ratio must be between 0 and 1")
)

// Default configuration values not owned by another package.
const defaultSampleRatio = 1.0

// analyzerNames are the names accepted in analyzers.enabled.
//
//nolint:gochecknoglobals // Fixed lookup table for validation.
var analyzerNames = map[string]bool{
	"complexity": true,
	"security":   true,
	"quality":    true,
}

// Config holds all configuration for the astra command line.
type Config struct {
	Analyzers  AnalyzersConfig       `mapstructure:"analyzers"`
	Complexity complexity.Thresholds `mapstructure:"complexity"`
	Security   security.Options      `mapstructure:"security"`
	Quality    quality.Options       `mapstructure:"quality"`
	Analysis   AnalysisConfig        `mapstructure:"analysis"`
	Suggest    SuggestConfig         `mapstructure:"suggest"`
	Logging    LoggingConfig         `mapstructure:"logging"`
	Telemetry  TelemetryConfig       `mapstructure:"telemetry"`
	Output     OutputConfig          `mapstructure:"output"`
}

// AnalyzersConfig selects which analyzers run.
type AnalyzersConfig struct {
	Enabled []string `mapstructure:"enabled"`
}

// AnalysisConfig holds traversal and parsing limits.
type AnalysisConfig struct {
	Jobs        int `mapstructure:"jobs"`
	MaxFileSize int `mapstructure:"max_file_size"`
}

// SuggestConfig holds the LLM suggestion settings.
type SuggestConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Enabled  bool          `mapstructure:"enabled"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds the OpenTelemetry export settings. An empty
// endpoint disables export entirely.
type TelemetryConfig struct {
	OTLPEndpoint string            `mapstructure:"otlp_endpoint"`
	OTLPHeaders  map[string]string `mapstructure:"otlp_headers"`
	SampleRatio  float64           `mapstructure:"sample_ratio"`
	OTLPInsecure bool              `mapstructure:"otlp_insecure"`
}

// OutputConfig holds report destination defaults, overridable per run by
// command line flags.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// Load reads configuration from the given file, or from .astra.yaml in
// the working directory and home directory when path is empty, merging
// ASTRA_* environment variables over it. A missing implicit config file
// is fine; a missing explicit one is an error.
func Load(path string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if path != "" {
		viperCfg.SetConfigFile(path)
	} else {
		viperCfg.SetConfigName(".astra")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")

		if home, homeErr := os.UserHomeDir(); homeErr == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	viperCfg.SetEnvPrefix("ASTRA")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	if used := viperCfg.ConfigFileUsed(); used != "" && readErr == nil {
		schemaErr := validateSchema(used)
		if schemaErr != nil {
			return nil, schemaErr
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the built-in configuration, untouched by any file or
// environment variable.
func Default() *Config {
	viperCfg := viper.New()
	setDefaults(viperCfg)

	var config Config

	// Defaults always unmarshal cleanly.
	_ = viperCfg.Unmarshal(&config)

	return &config
}

// setDefaults sets default configuration values. Threshold defaults live
// with the analyzers that enforce them.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("analyzers.enabled", []string{"complexity", "security", "quality"})

	thresholds := complexity.DefaultThresholds()
	viperCfg.SetDefault("complexity.cyclomatic", thresholds.Cyclomatic)
	viperCfg.SetDefault("complexity.cognitive", thresholds.Cognitive)
	viperCfg.SetDefault("complexity.nesting", thresholds.Nesting)
	viperCfg.SetDefault("complexity.length", thresholds.Length)

	secOpts := security.DefaultOptions()
	viperCfg.SetDefault("security.min_secret_length", secOpts.MinSecretLength)
	viperCfg.SetDefault("security.keyword_secret_length", secOpts.KeywordSecretLength)

	qualOpts := quality.DefaultOptions()
	viperCfg.SetDefault("quality.max_parameters", qualOpts.MaxParameters)
	viperCfg.SetDefault("quality.magic_number_ignore", qualOpts.MagicNumberIgnore)

	viperCfg.SetDefault("analysis.jobs", 0)
	viperCfg.SetDefault("analysis.max_file_size", parser.DefaultMaxFileSize)

	viperCfg.SetDefault("suggest.enabled", false)
	viperCfg.SetDefault("suggest.endpoint", suggest.DefaultEndpoint)
	viperCfg.SetDefault("suggest.model", suggest.DefaultModel)
	viperCfg.SetDefault("suggest.timeout", suggest.DefaultTimeout)

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", defaultSampleRatio)

	viperCfg.SetDefault("output.format", "text")
	viperCfg.SetDefault("output.path", "")
}

// validateSchema checks the raw config file against the embedded JSON
// schema, catching misspelled sections and wrongly typed values before
// they silently fall back to defaults.
func validateSchema(path string) error {
	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		return fmt.Errorf("failed to read config file: %w", readErr)
	}

	var doc any

	parseErr := yaml.Unmarshal(raw, &doc)
	if parseErr != nil {
		return fmt.Errorf("failed to parse config file: %w", parseErr)
	}

	// An empty file means pure defaults.
	if doc == nil {
		return nil
	}

	schemaBytes, schemaErr := schemaFS.ReadFile("config-schema.json")
	if schemaErr != nil {
		return fmt.Errorf("failed to read embedded schema: %w", schemaErr)
	}

	result, validateErr := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewGoLoader(doc),
	)
	if validateErr != nil {
		return fmt.Errorf("failed to validate config file: %w", validateErr)
	}

	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			issues = append(issues, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
		}

		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(issues, "; "))
	}

	return nil
}

// validateConfig validates the merged configuration. Threshold values are
// not checked here: the analyzer constructors replace non-positive limits
// with their defaults.
func validateConfig(config *Config) error {
	for _, name := range config.Analyzers.Enabled {
		if !analyzerNames[name] {
			return fmt.Errorf("%w: %q", ErrUnknownAnalyzer, name)
		}
	}

	if config.Analysis.Jobs < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidJobs, config.Analysis.Jobs)
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, config.Logging.Level)
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogFormat, config.Logging.Format)
	}

	if config.Suggest.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, config.Suggest.Timeout)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}
