package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken     string
	DatabasePath string
	LogLevel     string
	Seed         uint64

	StartChips int
	DefaultBet int
	MinBet     int
	MaxBet     int
	BetStep    int

	CardDelay   time.Duration
	DealerDelay time.Duration
	ResultDelay time.Duration
}

// Load reads the environment, after loading any .env files given (or ./.env
// when none are). Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		BotToken:     os.Getenv("BOT_TOKEN"),
		DatabasePath: os.Getenv("DATABASE_PATH"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		StartChips:   100,
		DefaultBet:   10,
		MinBet:       10,
		MaxBet:       100,
		BetStep:      10,
		CardDelay:    300 * time.Millisecond,
		DealerDelay:  time.Second,
		ResultDelay:  time.Second,
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "./blackjack.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if v := os.Getenv("BLACKJACK_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid BLACKJACK_SEED: %w", err)
		}
		cfg.Seed = seed
	}

	delays := []struct {
		env string
		dst *time.Duration
	}{
		{"BLACKJACK_CARD_DELAY", &cfg.CardDelay},
		{"BLACKJACK_DEALER_DELAY", &cfg.DealerDelay},
		{"BLACKJACK_RESULT_DELAY", &cfg.ResultDelay},
	}
	for _, d := range delays {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		dur, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.env, err)
		}
		if dur < 0 {
			return nil, fmt.Errorf("%s must not be negative", d.env)
		}
		*d.dst = dur
	}

	return cfg, nil
}

// RequireBotToken fails when the Telegram token is missing.
func (c *Config) RequireBotToken() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is not set")
	}
	return nil
}
