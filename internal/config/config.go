// Package config loads the progression server configuration from a YAML file with environment overrides
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "PROGRESSION_"

// Store kinds
const (
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds all configuration for the progression server
type Config struct {
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`
	Store  StoreConfig  `yaml:"store" envPrefix:"STORE_"`
	Rules  RulesConfig  `yaml:"rules" envPrefix:"RULES_"`
	Regen  RegenConfig  `yaml:"regen" envPrefix:"REGEN_"`
	Log    LogConfig    `yaml:"log" envPrefix:"LOG_"`
}

// ServerConfig configures the gRPC listener
type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// StoreConfig selects and configures the character store
type StoreConfig struct {
	Kind string `yaml:"kind" env:"KIND"`

	// RedisAddrs holds one address for a single instance, several for a cluster
	RedisAddrs    []string `yaml:"redis_addrs" env:"REDIS_ADDRS" envSeparator:","`
	RedisPoolSize int      `yaml:"redis_pool_size" env:"REDIS_POOL_SIZE"`
	// EmbeddedRedis starts an in-process Redis instead of dialing RedisAddrs
	EmbeddedRedis bool `yaml:"embedded_redis" env:"EMBEDDED_REDIS"`

	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
}

// RulesConfig points at the definition tables. Empty paths use the built-in tables.
type RulesConfig struct {
	TalentsFile         string `yaml:"talents_file" env:"TALENTS_FILE"`
	CatalogFile         string `yaml:"catalog_file" env:"CATALOG_FILE"`
	PointsPerLevel      int    `yaml:"points_per_level" env:"POINTS_PER_LEVEL"`
	PointsPerSkillLevel int    `yaml:"points_per_skill_level" env:"POINTS_PER_SKILL_LEVEL"`
}

// RegenConfig configures the regeneration loop
type RegenConfig struct {
	Interval time.Duration `yaml:"interval" env:"INTERVAL"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            50051,
			ShutdownTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Kind:          StoreRedis,
			RedisAddrs:    []string{"localhost:6379"},
			RedisPoolSize: 10,
			SQLitePath:    "data/characters.db",
		},
		Rules: RulesConfig{
			PointsPerLevel:      3,
			PointsPerSkillLevel: 1,
		},
		Regen: RegenConfig{
			Interval: time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			slog.Debug("config file not found, using defaults", "path", path)
		case err != nil:
			return cfg, errors.Wrapf(err, "failed to read config %s", path)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to parse config %s", path)
			}
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("server.port", c.Server.Port, 1, 65535, vb)
	if c.Server.ShutdownTimeout < 0 {
		vb.Field("server.shutdown_timeout", "must not be negative")
	}

	errors.ValidateEnum("store.kind", c.Store.Kind, []string{StoreRedis, StoreSQLite, StoreMemory}, vb)
	switch c.Store.Kind {
	case StoreRedis:
		if !c.Store.EmbeddedRedis && len(c.Store.RedisAddrs) == 0 {
			vb.RequiredField("store.redis_addrs")
		}
	case StoreSQLite:
		errors.ValidateRequired("store.sqlite_path", c.Store.SQLitePath, vb)
	}

	if c.Rules.PointsPerLevel < 0 {
		vb.Field("rules.points_per_level", "must not be negative")
	}
	if c.Rules.PointsPerSkillLevel < 0 {
		vb.Field("rules.points_per_skill_level", "must not be negative")
	}
	if c.Regen.Interval <= 0 {
		vb.Field("regen.interval", "must be positive")
	}

	if _, ok := parseLevel(c.Log.Level); !ok {
		vb.InvalidField("log.level", "must be one of debug, info, warn, error")
	}
	errors.ValidateEnum("log.format", strings.ToLower(c.Log.Format), []string{"text", "json"}, vb)

	return vb.Build()
}

// Logger builds the process logger described by the log section
func (c *Config) Logger() *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
