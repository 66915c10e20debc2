package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuv008/ASTra/pkg/analyzers/complexity"
	"github.com/yuv008/ASTra/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".astra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"complexity", "security", "quality"}, cfg.Analyzers.Enabled)
	assert.Equal(t, complexity.DefaultThresholds(), cfg.Complexity)
	assert.Equal(t, 8, cfg.Security.MinSecretLength)
	assert.Equal(t, 4, cfg.Quality.MaxParameters)
	assert.Equal(t, 0, cfg.Analysis.Jobs)
	assert.False(t, cfg.Suggest.Enabled)
	assert.Equal(t, "http://localhost:11434", cfg.Suggest.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Suggest.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
analyzers:
  enabled: [complexity, security]

complexity:
  cyclomatic: 5
  length: 80

analysis:
  jobs: 4

output:
  format: json
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"complexity", "security"}, cfg.Analyzers.Enabled)
	assert.Equal(t, 5, cfg.Complexity.Cyclomatic)
	assert.Equal(t, 80, cfg.Complexity.Length)
	assert.Equal(t, 4, cfg.Analysis.Jobs)
	assert.Equal(t, "json", cfg.Output.Format)

	// Untouched sections keep their defaults.
	assert.Equal(t, complexity.DefaultCognitiveThreshold, cfg.Complexity.Cognitive)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ASTRA_COMPLEXITY_CYCLOMATIC", "3")
	t.Setenv("ASTRA_SUGGEST_MODEL", "llama3")
	t.Setenv("ASTRA_LOGGING_FORMAT", "json")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Complexity.Cyclomatic)
	assert.Equal(t, "llama3", cfg.Suggest.Model)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, complexity.DefaultThresholds(), cfg.Complexity)
}

func TestLoadRejectsMisspelledSection(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
complextiy:
  cyclomatic: 5
`)

	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrSchemaViolation)
}

func TestLoadRejectsWrongType(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
complexity:
  cyclomatic: ten
`)

	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrSchemaViolation)
}

func TestLoadRejectsUnknownAnalyzer(t *testing.T) {
	// The schema catches unknown names in files, so exercise the merged
	// validation through the environment.
	t.Setenv("ASTRA_ANALYZERS_ENABLED", "complexity,typos")

	_, err := config.Load("")
	require.ErrorIs(t, err, config.ErrUnknownAnalyzer)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("ASTRA_LOGGING_LEVEL", "loud")

	_, err := config.Load("")
	require.ErrorIs(t, err, config.ErrUnknownLogLevel)
}

func TestLoadParsesDurations(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
suggest:
  enabled: true
  timeout: "5s"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Suggest.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Suggest.Timeout)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	assert.Equal(t, complexity.DefaultThresholds(), cfg.Complexity)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 1.0, cfg.Telemetry.SampleRatio)
}
