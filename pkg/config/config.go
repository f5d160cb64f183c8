// Package config loads and validates glossary extractor configuration from
// YAML files with environment-variable overrides. Command-line flags are
// applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by GlossaryConfig.Backend.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// DefaultExtensions is the allow-list used when scanning directories.
var DefaultExtensions = []string{".sql", ".txt", ".c", ".cpp", ".java", ".py", ".xml"}

// Config is the top-level application configuration.
type Config struct {
	Glossary  GlossaryConfig  `yaml:"glossary"`
	Walker    WalkerConfig    `yaml:"walker"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Redis     RedisConfig     `yaml:"redis"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// GlossaryConfig selects where the glossary lives and whether an existing
// one is merged into.
type GlossaryConfig struct {
	Path        string        `yaml:"path"`
	Load        bool          `yaml:"load"`
	Backend     string        `yaml:"backend"`
	LockTimeout time.Duration `yaml:"lockTimeout"`
}

// WalkerConfig controls directory traversal.
type WalkerConfig struct {
	Recursive  bool     `yaml:"recursive"`
	Extensions []string `yaml:"extensions"`
}

// TokenizerConfig selects an optional Unicode normalization form applied
// before word extraction ("none", "nfc", "nfkc").
type TokenizerConfig struct {
	NormalizeForm string `yaml:"normalizeForm"`
}

// RedisConfig holds Redis connection parameters for the redis backend.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	PoolSize  int    `yaml:"poolSize"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// PostgresConfig holds PostgreSQL connection parameters for the postgres
// backend.
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

// KafkaConfig holds broker and topic settings for dump notifications.
type KafkaConfig struct {
	Enabled bool        `yaml:"enabled"`
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	GlossaryDumped string `yaml:"glossaryDumped"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls where run metrics are written. A CLI run is too
// short-lived to scrape, so metrics go to a node_exporter textfile.
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	TextfilePath string `yaml:"textfilePath"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with defaults for any missing
// values.
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
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Glossary.Path == "" {
		return fmt.Errorf("glossary path is required")
	}
	switch c.Glossary.Backend {
	case BackendFile, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown glossary backend %q", c.Glossary.Backend)
	}
	if len(c.Walker.Extensions) == 0 {
		return fmt.Errorf("walker extensions must not be empty")
	}
	for _, ext := range c.Walker.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	switch strings.ToLower(c.Tokenizer.NormalizeForm) {
	case "", "none", "nfc", "nfkc":
	default:
		return fmt.Errorf("unknown normalize form %q", c.Tokenizer.NormalizeForm)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka enabled without brokers")
	}
	if c.Metrics.Enabled && c.Metrics.TextfilePath == "" {
		return fmt.Errorf("metrics enabled without textfile path")
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Glossary: GlossaryConfig{
			Backend:     BackendFile,
			LockTimeout: 10 * time.Second,
		},
		Walker: WalkerConfig{
			Extensions: append([]string(nil), DefaultExtensions...),
		},
		Tokenizer: TokenizerConfig{
			NormalizeForm: "none",
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			DB:        0,
			PoolSize:  4,
			KeyPrefix: "glossary:",
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "glossary",
			User:            "glossary",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topics: KafkaTopics{
				GlossaryDumped: "glossary-dumped",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// applyEnvOverrides reads GL_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GL_GLOSSARY_BACKEND"); v != "" {
		cfg.Glossary.Backend = v
	}
	if v := os.Getenv("GL_GLOSSARY_LOCK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Glossary.LockTimeout = d
		}
	}
	if v := os.Getenv("GL_WALKER_EXTENSIONS"); v != "" {
		cfg.Walker.Extensions = strings.Split(v, ",")
	}
	if v := os.Getenv("GL_TOKENIZER_NORMALIZE_FORM"); v != "" {
		cfg.Tokenizer.NormalizeForm = v
	}
	if v := os.Getenv("GL_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("GL_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("GL_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("GL_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("GL_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("GL_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("GL_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("GL_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("GL_POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := os.Getenv("GL_KAFKA_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Kafka.Enabled = enabled
		}
	}
	if v := os.Getenv("GL_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("GL_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GL_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("GL_METRICS_TEXTFILE_PATH"); v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.TextfilePath = v
	}
}
