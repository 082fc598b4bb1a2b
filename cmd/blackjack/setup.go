package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"casino/internal/config"
	"casino/internal/pacing"
	"casino/internal/randutil"
	"casino/internal/session"
)

func (g *Globals) config() (*config.Config, error) {
	cfg, err := config.Load(g.EnvFile...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if g.Seed != 0 {
		cfg.Seed = g.Seed
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}), nil
}

func rulesFrom(cfg *config.Config) session.Rules {
	return session.Rules{
		StartChips: cfg.StartChips,
		DefaultBet: cfg.DefaultBet,
		MinBet:     cfg.MinBet,
		MaxBet:     cfg.MaxBet,
		BetStep:    cfg.BetStep,
	}
}

func timingsFrom(cfg *config.Config) pacing.Timings {
	return pacing.Timings{
		CardDeal:   cfg.CardDelay,
		DealerTurn: cfg.DealerDelay,
		FinalDelay: cfg.ResultDelay,
	}
}

// sessionFactory builds controllers on one real-time pacer. Each controller
// gets its own generator split off the seeded root, since a rand.Rand must
// not be shared between sessions.
func sessionFactory(cfg *config.Config, logger *log.Logger) func() *session.Controller {
	pacer := pacing.New(quartz.NewReal())
	root := randutil.New(cfg.Seed)

	var mu sync.Mutex
	next := func() *rand.Rand {
		mu.Lock()
		defer mu.Unlock()
		return randutil.New(root.Uint64() | 1)
	}

	return func() *session.Controller {
		return session.New(pacer,
			session.WithRules(rulesFrom(cfg)),
			session.WithTimings(timingsFrom(cfg)),
			session.WithRand(next()),
			session.WithLogger(logger.WithPrefix("session")),
		)
	}
}
