package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vars = []string{
	"BOT_TOKEN", "DATABASE_PATH", "LOG_LEVEL", "BLACKJACK_SEED",
	"BLACKJACK_CARD_DELAY", "BLACKJACK_DEALER_DELAY", "BLACKJACK_RESULT_DELAY",
}

// clearEnv unsets every variable Load reads; t.Setenv restores them after.
func clearEnv(t *testing.T) {
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "./blackjack.db", cfg.DatabasePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.Seed)
	assert.Equal(t, 100, cfg.StartChips)
	assert.Equal(t, 10, cfg.DefaultBet)
	assert.Equal(t, 10, cfg.MinBet)
	assert.Equal(t, 100, cfg.MaxBet)
	assert.Equal(t, 10, cfg.BetStep)
	assert.Equal(t, 300*time.Millisecond, cfg.CardDelay)
	assert.Equal(t, time.Second, cfg.DealerDelay)
	assert.Equal(t, time.Second, cfg.ResultDelay)
	assert.Error(t, cfg.RequireBotToken())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_PATH", "/tmp/bj.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BLACKJACK_SEED", "42")
	t.Setenv("BLACKJACK_DEALER_DELAY", "250ms")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/bj.db", cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.DealerDelay)
	assert.NoError(t, cfg.RequireBotToken())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BOT_TOKEN=from-file\nBLACKJACK_CARD_DELAY=0s\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.BotToken)
	assert.Zero(t, cfg.CardDelay)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := map[string]string{
		"BLACKJACK_SEED":         "not-a-number",
		"BLACKJACK_CARD_DELAY":   "fast",
		"BLACKJACK_RESULT_DELAY": "-1s",
	}
	for env, value := range tests {
		t.Run(env, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(env, value)

			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}
