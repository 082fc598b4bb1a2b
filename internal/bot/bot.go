package bot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"casino/internal/config"
	"casino/internal/player"
	"casino/internal/session"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	logger  *log.Logger
}

func New(cfg *config.Config, repo player.Repository, newSession func() *session.Controller, rng *rand.Rand, logger *log.Logger) (*Bot, error) {
	if err := cfg.RequireBotToken(); err != nil {
		return nil, err
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}

	return &Bot{
		api:     api,
		handler: NewHandler(api, repo, newSession, rng, logger),
		logger:  logger,
	}, nil
}

// Run polls for updates until ctx is cancelled. Each update is handled on
// its own goroutine; sessions serialize their own events.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Bot started", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.handler.Close()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("Bot stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(update)
		}
	}
}

// Report logs the number of open tables every interval until ctx is done.
func (b *Bot) Report(ctx context.Context, clock quartz.Clock, every time.Duration) error {
	return reportTables(ctx, clock, every, b.handler, b.logger)
}

func reportTables(ctx context.Context, clock quartz.Clock, every time.Duration, h *Handler, logger *log.Logger) error {
	if every <= 0 {
		return nil
	}
	ticker := clock.NewTicker(every, "report")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			logger.Info("Tables open", "count", h.ActiveTables())
		}
	}
}

func (b *Bot) dispatch(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		go b.handler.HandleCallback(update.CallbackQuery)
		return
	}

	if update.Message != nil {
		go b.handler.HandleMessage(update.Message)
	}
}
