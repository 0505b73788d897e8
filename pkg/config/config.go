// Package config loads textkit configuration from an optional YAML or TOML
// file with TK_* environment-variable overrides. Every section has usable defaults, so
// the tool runs without any config file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Reader   ReaderConfig   `yaml:"reader" toml:"reader"`
	Analyzer AnalyzerConfig `yaml:"analyzer" toml:"analyzer"`
	Display  DisplayConfig  `yaml:"display" toml:"display"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics" toml:"metrics"`
	Redis    RedisConfig    `yaml:"redis" toml:"redis"`
}

// ReaderConfig controls chunked reads and the rendered content preview.
type ReaderConfig struct {
	ChunkSize     int `yaml:"chunkSize" toml:"chunkSize"`
	PreviewLength int `yaml:"previewLength" toml:"previewLength"`
}

// AnalyzerConfig holds analyzer defaults.
type AnalyzerConfig struct {
	CaseSensitive bool `yaml:"caseSensitive" toml:"caseSensitive"`
	TopWords      int  `yaml:"topWords" toml:"topWords"`
}

// DisplayConfig names the colors used when rendering readers and analyzers.
type DisplayConfig struct {
	ReaderColor   string `yaml:"readerColor" toml:"readerColor"`
	AnalyzerColor string `yaml:"analyzerColor" toml:"analyzerColor"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig controls Prometheus output. When Textfile is set, metrics are
// written there in the node-exporter textfile format when a command finishes.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" toml:"textfile"`
}

// RedisConfig holds the connection for the optional frequency result cache.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled" toml:"enabled"`
	Addr     string        `yaml:"addr" toml:"addr"`
	Password string        `yaml:"password" toml:"password"`
	DB       int           `yaml:"db" toml:"db"`
	PoolSize int           `yaml:"poolSize" toml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL" toml:"cacheTTL"`
}

// Load reads a config file (if provided), applies environment-variable
// overrides and validates the result. Files ending in .toml are parsed as
// TOML; anything else as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Reader: ReaderConfig{
			ChunkSize:     1024,
			PreviewLength: 200,
		},
		Analyzer: AnalyzerConfig{
			CaseSensitive: true,
			TopWords:      10,
		},
		Display: DisplayConfig{
			ReaderColor:   "blue",
			AnalyzerColor: "green",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			PoolSize: 4,
			CacheTTL: 10 * time.Minute,
		},
	}
}

// Validate rejects settings the reader cannot work with.
func (c *Config) Validate() error {
	if c.Reader.ChunkSize <= 0 {
		return fmt.Errorf("reader.chunkSize must be positive, got %d", c.Reader.ChunkSize)
	}
	if c.Reader.PreviewLength <= 0 {
		return fmt.Errorf("reader.previewLength must be positive, got %d", c.Reader.PreviewLength)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}

// applyEnvOverrides reads TK_* environment variables and overrides the
// corresponding config fields. Unparseable values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TK_READER_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Reader.ChunkSize = n
		}
	}
	if v := os.Getenv("TK_ANALYZER_CASE_SENSITIVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Analyzer.CaseSensitive = b
		}
	}
	if v := os.Getenv("TK_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TK_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TK_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
	if v := os.Getenv("TK_REDIS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Redis.Enabled = b
		}
	}
	if v := os.Getenv("TK_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TK_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}
