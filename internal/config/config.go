package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds agent configuration loaded from environment variables.
type Config struct {
	Strategy       string        // top-level policy name
	TurnBudget     time.Duration // wall-clock budget for one decision
	Seed           int64         // random strategy seed; 0 = derive one
	TuningPath     string        // optional YAML tuning file
	TranscriptPath string        // optional zstd transcript output
	Tuning         Tuning
}

// Load reads configuration from environment variables with sensible
// defaults, then applies the tuning file when one is configured.
func Load() (*Config, error) {
	cfg := &Config{
		Strategy:       envOrDefault("BOT_STRATEGY", "defend"),
		TurnBudget:     envDuration("BOT_TURN_BUDGET", 40*time.Millisecond),
		Seed:           envInt64("BOT_SEED", 0),
		TuningPath:     envOrDefault("BOT_TUNING", ""),
		TranscriptPath: envOrDefault("BOT_TRANSCRIPT", ""),
		Tuning:         DefaultTuning(),
	}
	if err := cfg.ApplyTuningFile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyTuningFile loads TuningPath, if set, over the current tuning. A
// turn budget in the file replaces the environment value.
func (c *Config) ApplyTuningFile() error {
	if c.TuningPath == "" {
		return nil
	}
	t, err := LoadTuning(c.TuningPath, c.Tuning)
	if err != nil {
		return err
	}
	c.Tuning = t
	if t.TurnBudgetMs > 0 {
		c.TurnBudget = time.Duration(t.TurnBudgetMs) * time.Millisecond
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
