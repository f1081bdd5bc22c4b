// Package config loads process-level settings for templatemap binaries.
//
// Values come from an optional YAML file, then TEMPLATEMAP_* environment
// variables override them, then the result is validated.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-templatemap/pkg/template"
)

const (
	defaultLogLevel = "info"
)

type Config struct {
	Templates struct {
		BaseDir string `yaml:"base_dir"`
	} `yaml:"templates"`

	Cache struct {
		// Capacity bounds the cache. Zero keeps it unbounded.
		Capacity int `yaml:"capacity"`
		Watch    struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"watch"`
	} `yaml:"cache"`

	Processing struct {
		MaxConcurrencyLimit int `yaml:"max_concurrency_limit"`
	} `yaml:"processing"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Load reads path when it is not empty, applies defaults and environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		// #nosec G304 -- path is provided by trusted flag.
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode: %w", err)
		}
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Processing.MaxConcurrencyLimit == 0 {
		cfg.Processing.MaxConcurrencyLimit = template.DefaultConcurrencyLimit
	}
	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = defaultLogLevel
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TEMPLATEMAP_BASE_DIR")); v != "" {
		cfg.Templates.BaseDir = v
	}
	if n, ok := envInt("TEMPLATEMAP_CACHE_CAPACITY"); ok {
		cfg.Cache.Capacity = n
	}
	cfg.Cache.Watch.Enabled = envBool("TEMPLATEMAP_CACHE_WATCH", cfg.Cache.Watch.Enabled)
	if n, ok := envInt("TEMPLATEMAP_MAX_CONCURRENCY_LIMIT"); ok {
		cfg.Processing.MaxConcurrencyLimit = n
	}
	if v := strings.TrimSpace(os.Getenv("TEMPLATEMAP_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func validate(cfg *Config) error {
	if cfg.Cache.Capacity < 0 {
		return errors.New("cache.capacity must be >= 0")
	}
	if cfg.Processing.MaxConcurrencyLimit < 1 {
		return errors.New("processing.max_concurrency_limit must be >= 1")
	}
	if _, err := parseLevel(cfg.Logging.Level); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts logging.level.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.Logging.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// RepositoryOptions maps the file settings onto repository options.
func (c *Config) RepositoryOptions() []template.RepositoryOption {
	var opts []template.RepositoryOption
	if c.Templates.BaseDir != "" {
		opts = append(opts, template.WithBaseDir(c.Templates.BaseDir))
	}
	if c.Cache.Capacity > 0 {
		opts = append(opts, template.WithCacheCapacity(c.Cache.Capacity))
	}
	if c.Cache.Watch.Enabled {
		opts = append(opts, template.WithWatch(true))
	}
	return opts
}

// ProcessingOptions validates in against processing.max_concurrency_limit.
func (c *Config) ProcessingOptions(in template.ProcessingOptionsInput) (template.ProcessingOptions, error) {
	return template.NewProcessingOptionsWithLimit(in, c.Processing.MaxConcurrencyLimit)
}

func parseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", raw)
	}
}
