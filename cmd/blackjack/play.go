package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"casino/internal/tui"
)

type PlayCmd struct {
	LogFile string `default:"blackjack.log" type:"path" help:"Write logs here so they don't draw over the table"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.config()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	logger, err := newLogger(logFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Info("Starting terminal game", "seed", cfg.Seed)

	ctl := sessionFactory(cfg, logger)()
	defer ctl.Close()

	if err := ctl.Start(); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return tui.Run(ctl, logger)
}
