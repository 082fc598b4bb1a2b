package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"casino/internal/bot"
	"casino/internal/database"
	"casino/internal/player"
	"casino/internal/randutil"
)

type BotCmd struct {
	ReportEvery time.Duration `default:"5m" help:"How often to log the number of open tables"`
}

func (c *BotCmd) Run(g *Globals) error {
	cfg, err := g.config()
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Database connected", "path", cfg.DatabasePath)

	repo := player.NewRepository(db.DB)
	b, err := bot.New(cfg, repo, sessionFactory(cfg, logger), randutil.New(cfg.Seed), logger.WithPrefix("bot"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error { return b.Run(ctx) })
	grp.Go(func() error { return b.Report(ctx, quartz.NewReal(), c.ReportEvery) })
	return grp.Wait()
}
