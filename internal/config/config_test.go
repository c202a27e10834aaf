package config_test

import (
	"log/slog"
	"testing"

	"github.com/VincentIliano/QuizMaster/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
	if cfg.Store != "file" || cfg.RoundsFile != "quiz_data.json" || cfg.StateFile != "game_state.json" {
		t.Errorf("store config = %+v", cfg)
	}
	if cfg.RedisURL != "" || cfg.NATSURL != "" {
		t.Errorf("relays enabled by default: %q %q", cfg.RedisURL, cfg.NATSURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE", "sqlite")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("FALSE_START_PENALTY", "5")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != "sqlite" || cfg.LogLevel != slog.LevelDebug || cfg.FalseStartPenalty != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown store", "STORE", "postgres"},
		{"negative penalty", "FALSE_START_PENALTY", "-1"},
		{"bad number", "FALSE_START_PENALTY", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)
			if _, err := config.Load(); err == nil {
				t.Errorf("Load with %s=%q succeeded", tt.key, tt.value)
			}
		})
	}
}
