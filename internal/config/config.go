// Package config reads the server settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds every setting of the server
type Config struct {
	HTTPAddr       string   `env:"HTTP_ADDR" envDefault:":8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	LobbyTTL      time.Duration `env:"LOBBY_TTL" envDefault:"24h"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseDSN    string `env:"DATABASE_DSN" envDefault:"quizdraft.db"`

	// PersistenceRetries bounds the attempts of each retried progress write
	PersistenceRetries uint `env:"PERSISTENCE_RETRIES" envDefault:"3"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	QuestionFile string `env:"QUESTION_FILE" envDefault:"questions.yaml"`

	DefaultQuestionSet string        `env:"DEFAULT_QUESTION_SET" envDefault:"general"`
	QuestionCount      int           `env:"QUESTION_COUNT" envDefault:"10"`
	TimeLimit          time.Duration `env:"TIME_LIMIT" envDefault:"20s"`
	RevealDelay        time.Duration `env:"REVEAL_DELAY" envDefault:"5s"`
	GracePeriod        time.Duration `env:"GRACE_PERIOD" envDefault:"1m"`
	MinPlayers         int           `env:"MIN_PLAYERS" envDefault:"2"`
	MaxPlayers         int           `env:"MAX_PLAYERS" envDefault:"8"`
	OfferSize          int           `env:"OFFER_SIZE" envDefault:"3"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env if present, then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment into a validated Config
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.MinPlayers < 1 || c.MaxPlayers < c.MinPlayers {
		return fmt.Errorf("invalid player limits %d..%d", c.MinPlayers, c.MaxPlayers)
	}
	if c.OfferSize < 1 {
		return fmt.Errorf("offer size must be positive, got %d", c.OfferSize)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}
