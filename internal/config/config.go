// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	Store      string `env:"STORE" envDefault:"file"`
	DataDir    string `env:"DATA_DIR" envDefault:"data"`
	RoundsFile string `env:"ROUNDS_FILE" envDefault:"quiz_data.json"`
	StateFile  string `env:"STATE_FILE" envDefault:"game_state.json"`
	DBPath     string `env:"DB_PATH" envDefault:"data/quizmaster.db"`

	FalseStartPenalty int `env:"FALSE_START_PENALTY" envDefault:"0"`

	RedisURL     string `env:"REDIS_URL"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"quizmaster.events"`
	NATSURL      string `env:"NATS_URL"`
	NATSSubject  string `env:"NATS_SUBJECT" envDefault:"quizmaster.events"`

	ConsoleDir string `env:"CONSOLE_DIR"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.Store != "file" && cfg.Store != "sqlite" {
		return nil, fmt.Errorf("STORE must be file or sqlite, got %q", cfg.Store)
	}
	if cfg.FalseStartPenalty < 0 {
		return nil, fmt.Errorf("FALSE_START_PENALTY must not be negative, got %d", cfg.FalseStartPenalty)
	}
	return &cfg, nil
}
