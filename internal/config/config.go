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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Places    PlacesConfig    `yaml:"places" mapstructure:"places"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string     `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string     `yaml:"database_url" mapstructure:"database_url"`
	Pool        PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig tunes the postgres connection pool.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// PlacesConfig holds place-data provider settings.
type PlacesConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// StorageConfig configures the durable photo store.
type StorageConfig struct {
	Bucket        string `yaml:"bucket" mapstructure:"bucket"`
	PublicBaseURL string `yaml:"public_base_url" mapstructure:"public_base_url"`
}

// EnrichConfig tunes the freshness and write-back policy.
type EnrichConfig struct {
	CacheTTLDays         int `yaml:"cache_ttl_days" mapstructure:"cache_ttl_days"`
	PhotoLimit           int `yaml:"photo_limit" mapstructure:"photo_limit"`
	PhotoMaxWidthPx      int `yaml:"photo_max_width_px" mapstructure:"photo_max_width_px"`
	BatchFetchLimit      int `yaml:"batch_fetch_limit" mapstructure:"batch_fetch_limit"`
	BatchConcurrency     int `yaml:"batch_concurrency" mapstructure:"batch_concurrency"`
	WritebackTimeoutSecs int `yaml:"writeback_timeout_secs" mapstructure:"writeback_timeout_secs"`
}

// IngestConfig tunes provider search ingestion.
type IngestConfig struct {
	SeedFile           string  `yaml:"seed_file" mapstructure:"seed_file"`
	MaxResults         int     `yaml:"max_results" mapstructure:"max_results"`
	FeaturedMinRating  float64 `yaml:"featured_min_rating" mapstructure:"featured_min_rating"`
	FeaturedMinReviews int     `yaml:"featured_min_reviews" mapstructure:"featured_min_reviews"`
}

// AnthropicConfig holds Anthropic API settings for description drafting.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("DIRECTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys and the bucket default to empty so env-only overrides
	// still bind through Unmarshal.
	v.SetDefault("places.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "directory.db")
	v.SetDefault("places.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("places.rate_limit", 10)
	v.SetDefault("places.timeout_secs", 10)
	v.SetDefault("enrich.cache_ttl_days", 7)
	v.SetDefault("enrich.photo_limit", 5)
	v.SetDefault("enrich.photo_max_width_px", 800)
	v.SetDefault("enrich.batch_fetch_limit", 10)
	v.SetDefault("enrich.batch_concurrency", 5)
	v.SetDefault("enrich.writeback_timeout_secs", 30)
	v.SetDefault("ingest.seed_file", "seeds.yaml")
	v.SetDefault("ingest.max_results", 20)
	v.SetDefault("ingest.featured_min_rating", 4.5)
	v.SetDefault("ingest.featured_min_reviews", 10)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
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
