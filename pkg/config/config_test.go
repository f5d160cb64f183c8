package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Glossary.Backend)
	assert.False(t, cfg.Glossary.Load)
	assert.False(t, cfg.Walker.Recursive)
	assert.Equal(t, DefaultExtensions, cfg.Walker.Extensions)
	assert.Equal(t, "none", cfg.Tokenizer.NormalizeForm)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glossary.yaml")
	yml := `
glossary:
  path: out/glossary.txt
  load: true
  backend: redis
  lockTimeout: 3s
walker:
  recursive: true
  extensions: [".go", ".md"]
redis:
  keyPrefix: "vocab:"
logging:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("GL_LOGGING_LEVEL", "debug")
	t.Setenv("GL_KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out/glossary.txt", cfg.Glossary.Path)
	assert.True(t, cfg.Glossary.Load)
	assert.Equal(t, BackendRedis, cfg.Glossary.Backend)
	assert.Equal(t, 3*time.Second, cfg.Glossary.LockTimeout)
	assert.True(t, cfg.Walker.Recursive)
	assert.Equal(t, []string{".go", ".md"}, cfg.Walker.Extensions)
	assert.Equal(t, "vocab:", cfg.Redis.KeyPrefix)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Glossary.Path = "glossary.txt"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing path", func(c *Config) { c.Glossary.Path = "" }},
		{"unknown backend", func(c *Config) { c.Glossary.Backend = "s3" }},
		{"no extensions", func(c *Config) { c.Walker.Extensions = nil }},
		{"extension without dot", func(c *Config) { c.Walker.Extensions = []string{"py"} }},
		{"unknown normalize form", func(c *Config) { c.Tokenizer.NormalizeForm = "nfd" }},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }},
		{"metrics without path", func(c *Config) { c.Metrics.Enabled = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := defaultConfig().Postgres
	assert.Equal(t,
		"host=localhost port=5432 user=glossary password=localdev dbname=glossary sslmode=disable",
		p.DSN())
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "glossary.yaml"))
	require.NoError(t, err)
	cfg.Glossary.Path = "glossary.txt"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultExtensions, cfg.Walker.Extensions)
	assert.Equal(t, "glossary-dumped", cfg.Kafka.Topics.GlossaryDumped)
}
