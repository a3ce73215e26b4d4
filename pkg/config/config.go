// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Redis, Postgres, Kafka, Extraction, Indexer, Webhook, etc.).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Persister backends accepted by IndexerConfig.Persister.
const (
	PersisterAppend   = "append"
	PersisterReplace  = "replace"
	PersisterPostgres = "postgres"
)

// Config is the top-level application configuration.
type Config struct {
	Redis      RedisConfig      `yaml:"redis"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Indexer    IndexerConfig    `yaml:"indexer"`
	Webhook    WebhookConfig    `yaml:"webhook"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// RedisConfig holds the keyword store connection. URL, when set, takes
// precedence over the discrete Addr/Password/DB fields.
type RedisConfig struct {
	URL         string        `yaml:"url"`
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	PoolSize    int           `yaml:"poolSize"`
	KeyPrefix   string        `yaml:"keyPrefix"`
	DialTimeout time.Duration `yaml:"dialTimeout"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings. Kafka is optional; when
// disabled no run notifications are published and listen mode is unavailable.
type KafkaConfig struct {
	Enabled       bool        `yaml:"enabled"`
	Brokers       []string    `yaml:"brokers"`
	ConsumerGroup string      `yaml:"consumerGroup"`
	Topics        KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	IndexRequest  string `yaml:"indexRequest"`
	IndexComplete string `yaml:"indexComplete"`
}

// ExtractionConfig describes the phrase-extraction service and the per-call
// budget it imposes.
type ExtractionConfig struct {
	Endpoint      string        `yaml:"endpoint"`
	APIKey        string        `yaml:"apiKey"`
	Locale        string        `yaml:"locale"`
	MaxChunkChars int           `yaml:"maxChunkChars"`
	MaxChunks     int           `yaml:"maxChunks"`
	MinScore      float64       `yaml:"minScore"` // 0 means the 0.85 default
	HTTPTimeout   time.Duration `yaml:"httpTimeout"`
}

// IndexerConfig controls document discovery, parallelism and the persistence
// backend of an index run.
type IndexerConfig struct {
	Root        string   `yaml:"root"`
	Extensions  []string `yaml:"extensions"`
	Concurrency int      `yaml:"concurrency"`
	Persister   string   `yaml:"persister"`
}

// WebhookConfig holds the event-notification endpoint settings.
type WebhookConfig struct {
	Port            int           `yaml:"port"`
	SigningSecret   string        `yaml:"signingSecret"`
	RateLimit       int           `yaml:"rateLimit"` // requests per client per minute, 0 disables
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() *Config {
	return defaultConfig()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Extraction.MaxChunkChars <= 0 {
		return fmt.Errorf("extraction.maxChunkChars must be positive, got %d", c.Extraction.MaxChunkChars)
	}
	if c.Extraction.MaxChunks <= 0 {
		return fmt.Errorf("extraction.maxChunks must be positive, got %d", c.Extraction.MaxChunks)
	}
	if c.Extraction.MinScore < 0 || c.Extraction.MinScore > 1 {
		return fmt.Errorf("extraction.minScore must be within [0,1], got %v", c.Extraction.MinScore)
	}
	if c.Extraction.Locale == "" {
		return fmt.Errorf("extraction.locale is required")
	}
	if c.Webhook.RateLimit < 0 {
		return fmt.Errorf("webhook.rateLimit must not be negative, got %d", c.Webhook.RateLimit)
	}
	if c.Indexer.Concurrency <= 0 {
		return fmt.Errorf("indexer.concurrency must be positive, got %d", c.Indexer.Concurrency)
	}
	switch c.Indexer.Persister {
	case PersisterAppend, PersisterReplace, PersisterPostgres:
	default:
		return fmt.Errorf("indexer.persister %q is not one of append, replace, postgres", c.Indexer.Persister)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			PoolSize:    10,
			DialTimeout: 5 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "eddy",
			User:            "eddy",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Enabled:       false,
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "eddy-indexer",
			Topics: KafkaTopics{
				IndexRequest:  "keyword-index.request",
				IndexComplete: "keyword-index.complete",
			},
		},
		Extraction: ExtractionConfig{
			Endpoint:      "http://localhost:8085",
			Locale:        "en",
			MaxChunkChars: 2500,
			MaxChunks:     25,
			MinScore:      0.85,
		},
		Indexer: IndexerConfig{
			Root:        ".",
			Extensions:  []string{".md"},
			Concurrency: 1,
			Persister:   PersisterAppend,
		},
		Webhook: WebhookConfig{
			Port:            8090,
			RateLimit:       120,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads EDDY_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EDDY_REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("EDDY_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("EDDY_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("EDDY_REDIS_KEY_PREFIX"); v != "" {
		cfg.Redis.KeyPrefix = v
	}
	if v := os.Getenv("EDDY_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("EDDY_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("EDDY_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("EDDY_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("EDDY_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("EDDY_KAFKA_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Kafka.Enabled = enabled
		}
	}
	if v := os.Getenv("EDDY_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("EDDY_EXTRACTION_ENDPOINT"); v != "" {
		cfg.Extraction.Endpoint = v
	}
	if v := os.Getenv("EDDY_EXTRACTION_API_KEY"); v != "" {
		cfg.Extraction.APIKey = v
	}
	if v := os.Getenv("EDDY_EXTRACTION_LOCALE"); v != "" {
		cfg.Extraction.Locale = v
	}
	if v := os.Getenv("EDDY_INDEXER_ROOT"); v != "" {
		cfg.Indexer.Root = v
	}
	if v := os.Getenv("EDDY_INDEXER_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indexer.Concurrency = n
		}
	}
	if v := os.Getenv("EDDY_INDEXER_PERSISTER"); v != "" {
		cfg.Indexer.Persister = v
	}
	if v := os.Getenv("EDDY_WEBHOOK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Webhook.Port = port
		}
	}
	if v := os.Getenv("EDDY_WEBHOOK_SIGNING_SECRET"); v != "" {
		cfg.Webhook.SigningSecret = v
	}
	if v := os.Getenv("EDDY_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("EDDY_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("EDDY_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
}
