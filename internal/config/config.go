// Package config loads server settings from defaults, an optional YAML file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port string `mapstructure:"port"`

	CacheEnabled  bool          `mapstructure:"cache_enabled"`
	RedisHost     string        `mapstructure:"redis_host"`
	RedisPort     string        `mapstructure:"redis_port"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisTTL      time.Duration `mapstructure:"redis_ttl"`

	// DataFile holds planes with their date lists, LegsFile one row per flight leg.
	DataFile     string `mapstructure:"data_file"`
	LegsFile     string `mapstructure:"legs_file"`
	StoreBackend string `mapstructure:"store_backend"`
	SQLitePath   string `mapstructure:"sqlite_path"`

	NATSURL     string `mapstructure:"nats_url"`
	NATSSubject string `mapstructure:"nats_subject"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	GoogleAPIKey   string        `mapstructure:"google_api_key"`
	ChatModel      string        `mapstructure:"chat_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	ChatTimeout    time.Duration `mapstructure:"chat_timeout"`
	ChatMaxRetries int           `mapstructure:"chat_max_retries"`
	ChatTopK       int           `mapstructure:"chat_top_k"`
	ChatRPS        float64       `mapstructure:"chat_rps"`
	ChatBurst      int           `mapstructure:"chat_burst"`
	ChatContextPDF string        `mapstructure:"chat_context_pdf"`

	// Embedding limits apply to index rebuilds; zero follows ChatRPS/ChatBurst.
	ChatEmbedRPS   float64 `mapstructure:"chat_embed_rps"`
	ChatEmbedBurst int     `mapstructure:"chat_embed_burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")

	v.SetDefault("cache_enabled", false)
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_ttl", "5m")

	v.SetDefault("data_file", "data.csv")
	v.SetDefault("legs_file", "flat_data.csv")
	v.SetDefault("store_backend", BackendCSV)
	v.SetDefault("sqlite_path", "fleet.db")

	v.SetDefault("nats_url", "")
	v.SetDefault("nats_subject", "fleet")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("google_api_key", "")
	v.SetDefault("chat_model", "gemini-1.5-flash")
	v.SetDefault("embedding_model", "embedding-001")
	v.SetDefault("chat_timeout", "30s")
	v.SetDefault("chat_max_retries", 2)
	v.SetDefault("chat_top_k", 0)
	v.SetDefault("chat_rps", 5.0)
	v.SetDefault("chat_burst", 10)
	v.SetDefault("chat_embed_rps", 0.0)
	v.SetDefault("chat_embed_burst", 0)
	v.SetDefault("chat_context_pdf", "")
}

// Load reads the config file at path when given, otherwise looks for
// fleetdesk.yaml in the working directory. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fleetdesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %q: must be between 1 and 65535", c.Port)
	}
	switch c.StoreBackend {
	case BackendCSV, BackendSQLite:
	default:
		return fmt.Errorf("invalid store_backend %q: want %s or %s", c.StoreBackend, BackendCSV, BackendSQLite)
	}
	if c.ChatMaxRetries < 0 {
		return fmt.Errorf("chat_max_retries must not be negative")
	}
	return nil
}

// ChatEnabled reports whether a generation backend is configured.
func (c *Config) ChatEnabled() bool {
	return c.GoogleAPIKey != ""
}

// StorePath returns where records of variant ("planes" or "legs") are kept for
// the configured backend. SQLite keeps both variants in one database file.
func (c *Config) StorePath(variant string) string {
	if c.StoreBackend == BackendSQLite {
		return c.SQLitePath
	}
	if variant == "legs" {
		return c.LegsFile
	}
	return c.DataFile
}
