package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shoebox-labs/cardscout-cli/internal/pipeline"
)

func chTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Catalog.Driver)
	assert.Equal(t, "cardscout.db", cfg.Catalog.DatabaseURL)
	assert.Equal(t, "purchases.db", cfg.Purchases.DatabasePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Batch.IntervalMS)
	assert.InDelta(t, 0.4, cfg.Pipeline.DetectionThreshold, 0.001)
	assert.InDelta(t, 0.3, cfg.Pipeline.MinMatchScore, 0.001)
	assert.Equal(t, 50, cfg.Pipeline.CandidateCap)
	assert.Equal(t, pipeline.DefaultWeights(), cfg.Pipeline.Weights)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chTempDir(t)

	yaml := `
catalog:
  driver: postgres
  database_url: postgres://localhost/cards
log:
  level: debug
  format: console
server:
  port: 9090
pipeline:
  detection_threshold: 0.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Catalog.Driver)
	assert.Equal(t, "postgres://localhost/cards", cfg.Catalog.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 0.5, cfg.Pipeline.DetectionThreshold, 0.001)
	// Defaults still apply for unset values
	assert.Equal(t, 50, cfg.Pipeline.CandidateCap)
	assert.Equal(t, pipeline.DefaultWeights(), cfg.Pipeline.Weights)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chTempDir(t)

	yaml := `
catalog:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("CARDSCOUT_CATALOG_DRIVER", "postgres")
	t.Setenv("CARDSCOUT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Catalog.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chTempDir(t)

	t.Setenv("CARDSCOUT_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadRejectsBadWeights(t *testing.T) {
	dir := chTempDir(t)

	yaml := `
pipeline:
  weights:
    player: 0.9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1.0")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Catalog.Driver = "sqlite"
	cfg.Catalog.DatabaseURL = "cardscout.db"
	cfg.Pipeline.DetectionThreshold = 0.4
	cfg.Pipeline.MinMatchScore = 0.3
	cfg.Pipeline.CandidateCap = 50
	cfg.Pipeline.Weights = pipeline.DefaultWeights()
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateMatch_Valid(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("match"))
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Catalog.DatabaseURL = ""

	err := cfg.Validate("match")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.database_url is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateThresholdBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Pipeline.DetectionThreshold = -0.1
	err := cfg.Validate("match")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detection_threshold")

	cfg.Pipeline.DetectionThreshold = 0.4
	cfg.Pipeline.MinMatchScore = 1.1
	err = cfg.Validate("match")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_match_score")

	cfg.Pipeline.MinMatchScore = 0.3
	cfg.Pipeline.CandidateCap = 0
	err = cfg.Validate("match")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate_cap must be between 1 and 500")
}

func TestPipelineOptions(t *testing.T) {
	cfg := validDefaults()
	opts := cfg.PipelineOptions()

	assert.InDelta(t, 0.4, opts.DetectionThreshold, 0.001)
	assert.InDelta(t, 0.3, opts.Matcher.MinScore, 0.001)
	assert.Equal(t, 50, opts.Matcher.CandidateCap)
	assert.Equal(t, pipeline.DefaultWeights(), opts.Matcher.Weights)
}
