// Package config reads process configuration from the environment. A .env file in the
// working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/store/objectstore"
	"github.com/AdamBeresnev/courtkeeper/internal/validate"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverS3     = "s3"
	DriverMemory = "memory"
)

type Config struct {
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"courtkeeper.db"`

	S3Bucket          string `env:"S3_BUCKET"`
	S3Prefix          string `env:"S3_PREFIX"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3Region          string `env:"S3_REGION" envDefault:"auto"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`

	StorageTimeout time.Duration `env:"STORAGE_TIMEOUT" envDefault:"5s"`

	AllowDraws bool    `env:"ALLOW_DRAWS" envDefault:"false"`
	MaxScore   int     `env:"MAX_SCORE" envDefault:"99"`
	MinSkill   float64 `env:"MIN_SKILL" envDefault:"1"`
	MaxSkill   float64 `env:"MAX_SKILL" envDefault:"5"`

	DefaultCourts      int    `env:"DEFAULT_COURTS" envDefault:"1"`
	DefaultPairingMode string `env:"DEFAULT_PAIRING_MODE" envDefault:"BALANCED"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env when it exists, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	return Parse()
}

func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverSQLite, DriverMemory:
	case DriverS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when STORE_DRIVER=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be sqlite, s3 or memory, got %q", c.StoreDriver))
	}
	if c.StorageTimeout <= 0 {
		errs = append(errs, fmt.Errorf("STORAGE_TIMEOUT must be positive, got %s", c.StorageTimeout))
	}
	if c.MinSkill > c.MaxSkill {
		errs = append(errs, fmt.Errorf("MIN_SKILL %g is above MAX_SKILL %g", c.MinSkill, c.MaxSkill))
	}
	if c.MaxScore < 1 {
		errs = append(errs, fmt.Errorf("MAX_SCORE must be positive, got %d", c.MaxScore))
	}
	if c.DefaultCourts < 1 {
		errs = append(errs, fmt.Errorf("DEFAULT_COURTS must be at least 1, got %d", c.DefaultCourts))
	}
	if _, ok := game.ParsePairingMode(c.DefaultPairingMode); !ok {
		errs = append(errs, fmt.Errorf("DEFAULT_PAIRING_MODE must be BALANCED or RANDOM, got %q", c.DefaultPairingMode))
	}
	return errors.Join(errs...)
}

func (c *Config) Policy() validate.Policy {
	return validate.Policy{
		AllowDraws: c.AllowDraws,
		MaxScore:   c.MaxScore,
		MinSkill:   c.MinSkill,
		MaxSkill:   c.MaxSkill,
	}
}

func (c *Config) ObjectStore() objectstore.Config {
	return objectstore.Config{
		Bucket:          c.S3Bucket,
		Prefix:          c.S3Prefix,
		Region:          c.S3Region,
		Endpoint:        c.S3Endpoint,
		AccessKeyID:     c.S3AccessKeyID,
		SecretAccessKey: c.S3SecretAccessKey,
	}
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
