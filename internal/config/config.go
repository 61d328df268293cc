package config

import (
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shoebox-labs/cardscout-cli/internal/catalog"
	"github.com/shoebox-labs/cardscout-cli/internal/pipeline"
)

// Config holds the full application configuration.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	Purchases PurchasesConfig `yaml:"purchases" mapstructure:"purchases"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Vocab     VocabConfig     `yaml:"vocab" mapstructure:"vocab"`
}

// CatalogConfig configures the card catalog backend.
type CatalogConfig struct {
	Driver      string             `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string             `yaml:"database_url" mapstructure:"database_url"`
	Pool        catalog.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PurchasesConfig configures purchase persistence.
type PurchasesConfig struct {
	DatabasePath string `yaml:"database_path" mapstructure:"database_path"`
}

// PipelineConfig configures detection and matching behavior.
type PipelineConfig struct {
	DetectionThreshold float64          `yaml:"detection_threshold" mapstructure:"detection_threshold"`
	MinMatchScore      float64          `yaml:"min_match_score" mapstructure:"min_match_score"`
	CandidateCap       int              `yaml:"candidate_cap" mapstructure:"candidate_cap"`
	Weights            pipeline.Weights `yaml:"weights" mapstructure:"weights"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	IntervalMS int `yaml:"interval_ms" mapstructure:"interval_ms"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// VocabConfig points at an optional vocabulary override file.
type VocabConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CARDSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.driver", "sqlite")
	v.SetDefault("catalog.database_url", "cardscout.db")
	v.SetDefault("purchases.database_path", "purchases.db")
	v.SetDefault("pipeline.detection_threshold", 0.4)
	v.SetDefault("pipeline.min_match_score", 0.3)
	v.SetDefault("pipeline.candidate_cap", 50)
	v.SetDefault("pipeline.weights.player", 0.40)
	v.SetDefault("pipeline.weights.year", 0.30)
	v.SetDefault("pipeline.weights.card_number", 0.15)
	v.SetDefault("pipeline.weights.brand_series", 0.10)
	v.SetDefault("pipeline.weights.rookie", 0.05)
	v.SetDefault("batch.interval_ms", 100)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Pipeline.Weights.Validate(); err != nil {
		return nil, eris.Wrap(err, "config: scoring weights")
	}

	return &cfg, nil
}

// PipelineOptions converts the config into pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		DetectionThreshold: c.Pipeline.DetectionThreshold,
		Matcher: pipeline.MatcherOptions{
			Weights:      c.Pipeline.Weights,
			MinScore:     c.Pipeline.MinMatchScore,
			CandidateCap: c.Pipeline.CandidateCap,
		},
	}
}

// Validate checks the configuration for the given execution mode.
// Modes: "match" (one-shot and batch runs), "serve" (webhook server),
// "catalog" (catalog management).
func (c *Config) Validate(mode string) error {
	var errs []error

	if c.Pipeline.DetectionThreshold < 0 || c.Pipeline.DetectionThreshold > 1 {
		errs = append(errs, eris.New("pipeline.detection_threshold must be in [0, 1]"))
	}
	if c.Pipeline.MinMatchScore < 0 || c.Pipeline.MinMatchScore > 1 {
		errs = append(errs, eris.New("pipeline.min_match_score must be in [0, 1]"))
	}
	if c.Pipeline.CandidateCap < 1 || c.Pipeline.CandidateCap > 500 {
		errs = append(errs, eris.New("pipeline.candidate_cap must be between 1 and 500"))
	}
	if err := c.Pipeline.Weights.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Catalog.DatabaseURL == "" {
		errs = append(errs, eris.New("catalog.database_url is required"))
	}

	switch mode {
	case "match", "catalog":
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, eris.New("server.port must be > 0"))
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Wrap(errors.Join(errs...), "config: invalid")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
