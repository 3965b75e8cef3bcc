// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Pronto    ProntoConfig    `yaml:"pronto" mapstructure:"pronto"`
	Apify     ApifyConfig     `yaml:"apify" mapstructure:"apify"`
	Aggregate AggregateConfig `yaml:"aggregate" mapstructure:"aggregate"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the REST facade.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// AuthConfig configures the API-key capability check. An empty key
// leaves the facade open.
type AuthConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
}

// StoreConfig configures run-history persistence. Driver is "sqlite",
// "postgres" or "" to disable recording.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ProntoConfig holds Pronto API settings. Timeouts are per call: the
// detail timeout applies to global-result fan-out fetches, the enrich
// timeout to every enrichment call.
type ProntoConfig struct {
	Key             string  `yaml:"key" mapstructure:"key"`
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit       float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst       int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	TimeoutSecs     int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	DetailTimeoutMs int     `yaml:"detail_timeout_ms" mapstructure:"detail_timeout_ms"`
	EnrichTimeoutMs int     `yaml:"enrich_timeout_ms" mapstructure:"enrich_timeout_ms"`
	MaxRetries      int     `yaml:"max_retries" mapstructure:"max_retries"`
}

// ApifyConfig holds Apify settings for the Google Places pass-through.
type ApifyConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Actor   string `yaml:"actor" mapstructure:"actor"`
}

// AggregateConfig tunes the aggregation core.
type AggregateConfig struct {
	PageSize          int `yaml:"page_size" mapstructure:"page_size"`
	FanoutConcurrency int `yaml:"fanout_concurrency" mapstructure:"fanout_concurrency"`
	DefaultLimit      int `yaml:"default_limit" mapstructure:"default_limit"`
	MaxLimit          int `yaml:"max_limit" mapstructure:"max_limit"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPERIAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "prosperian.db")
	v.SetDefault("pronto.base_url", "https://app.prontohq.com/api/v2")
	v.SetDefault("pronto.rate_limit", 10)
	v.SetDefault("pronto.rate_burst", 10)
	v.SetDefault("pronto.timeout_secs", 30)
	v.SetDefault("pronto.detail_timeout_ms", 900)
	v.SetDefault("pronto.enrich_timeout_ms", 800)
	v.SetDefault("pronto.max_retries", 3)
	v.SetDefault("apify.base_url", "https://api.apify.com/v2")
	v.SetDefault("apify.actor", "compass~crawler-google-places")
	v.SetDefault("aggregate.page_size", 12)
	v.SetDefault("aggregate.fanout_concurrency", 8)
	v.SetDefault("aggregate.default_limit", 1000)
	v.SetDefault("aggregate.max_limit", 10000)

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

	return &cfg, nil
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
