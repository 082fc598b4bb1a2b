package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"casino/internal/coinflip"
	"casino/internal/game"
	"casino/internal/player"
	"casino/internal/session"
)

const saveTimeout = 5 * time.Second

// sender is the part of the Telegram API the handler talks to.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// chat is the per-chat presentation state: the table message that gets
// edited in place and the coin-flip wallet.
type chat struct {
	mu          sync.Mutex
	messageID   int
	lastVersion uint64
	lastRender  string
	recorded    int
	wallet      *coinflip.Wallet
}

type Handler struct {
	bot        sender
	players    player.Repository
	tables     *session.Manager
	newSession func() *session.Controller
	logger     *log.Logger

	mu    sync.Mutex
	chats map[int64]*chat
	rng   *rand.Rand
}

func NewHandler(bot sender, repo player.Repository, newSession func() *session.Controller, rng *rand.Rand, logger *log.Logger) *Handler {
	return &Handler{
		bot:        bot,
		players:    repo,
		tables:     session.NewManager(),
		newSession: newSession,
		logger:     logger,
		chats:      make(map[int64]*chat),
		rng:        rng,
	}
}

// ActiveTables is the number of chats with a session.
func (h *Handler) ActiveTables() int {
	return h.tables.Len()
}

// Close cancels every table's pending steps.
func (h *Handler) Close() {
	h.tables.CloseAll()
}

// ============== HELPERS ==============

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.logger.Error("Failed to send message", "chat", chatID, "error", err)
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("Failed to answer callback", "error", err)
	}
}

func (h *Handler) chat(chatID int64) *chat {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.chats[chatID]
	if !ok {
		c = &chat{wallet: coinflip.NewWallet()}
		h.chats[chatID] = c
	}
	return c
}

// table returns the chat's session. A new session is wired to the chat's
// table message before any other goroutine can reach it.
func (h *Handler) table(chatID int64) *session.Controller {
	ctl, _ := h.tables.GetOrCreate(chatID, func() *session.Controller {
		ctl := h.newSession()
		ctl.Observe(func(s session.Snapshot) {
			h.render(chatID, s)
		})
		return ctl
	})
	return ctl
}

func (h *Handler) render(chatID int64, s session.Snapshot) {
	if h.show(chatID, s) {
		h.recordRound(chatID, s)
	}
}

// show draws s on the chat's table message. It reports whether s finishes a
// round that has not been recorded yet.
func (h *Handler) show(chatID int64, s session.Snapshot) bool {
	c := h.chat(chatID)
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.Version < c.lastVersion {
		return false
	}
	c.lastVersion = s.Version

	text := formatTable(s)
	kb := TableKeyboard(s)
	key := text + "|" + strings.Join(keyboardData(kb), ",")

	switch {
	case c.messageID == 0:
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = kb
		sent, err := h.bot.Send(msg)
		if err != nil {
			h.logger.Error("Failed to send table", "chat", chatID, "error", err)
			break
		}
		c.messageID = sent.MessageID
		c.lastRender = key

	case key != c.lastRender:
		// Telegram rejects edits that change nothing.
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, c.messageID, text, kb)
		if _, err := h.bot.Send(edit); err != nil {
			h.logger.Warn("Failed to edit table", "chat", chatID, "error", err)
			break
		}
		c.lastRender = key
	}

	if s.State.Terminal() && s.Round > c.recorded {
		c.recorded = s.Round
		return true
	}
	return false
}

func (h *Handler) recordRound(chatID int64, s session.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	p, err := h.players.GetOrCreate(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to load player", "chat", chatID, "error", err)
		return
	}
	p.RecordRound(s.State, s.Bet, s.Chips)
	if err := h.players.Save(ctx, p); err != nil {
		h.logger.Error("Failed to save player", "chat", chatID, "error", err)
	}
}

// ============== FORMATTING ==============

func formatHand(hand game.Hand, hole bool) string {
	parts := make([]string, 0, len(hand)+1)
	for _, c := range hand {
		parts = append(parts, c.String())
	}
	if hole {
		parts = append(parts, "🂠")
	}
	return strings.Join(parts, " ")
}

func formatTable(s session.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💵 Chips: %d | Bet: %d\n", s.Chips, s.Bet)

	if len(s.Dealer) > 0 {
		fmt.Fprintf(&sb, "\n🃏 Dealer: %s (%s)\n", formatHand(s.Dealer, s.HoleHidden), s.DealerScore)
		fmt.Fprintf(&sb, "🎴 You: %s (%s)\n", formatHand(s.Player, false), s.PlayerScore)
	}

	fmt.Fprintf(&sb, "\n%s", session.Headline(s))
	switch {
	case s.Payout > 0:
		fmt.Fprintf(&sb, "\n💰 +%d", s.Payout)
	case s.Payout < 0:
		fmt.Fprintf(&sb, "\n💸 %d", s.Payout)
	}
	return sb.String()
}

// actionError turns a controller error into a short callback answer.
func actionError(err error) string {
	switch {
	case errors.Is(err, session.ErrBusy):
		return "⏳ Wait for the dealer"
	case errors.Is(err, session.ErrNotAllowed):
		return "Not now"
	case errors.Is(err, game.ErrOutOfCards):
		return "The deck ran out"
	}
	return "❌ Error"
}

// ============== COMMANDS ==============

func (h *Handler) HandleStart(chatID int64) {
	ctl := h.table(chatID)

	c := h.chat(chatID)
	c.mu.Lock()
	c.messageID = 0
	c.mu.Unlock()

	h.startSession(chatID, ctl)
}

func (h *Handler) startSession(chatID int64, ctl *session.Controller) {
	if err := ctl.Start(); err != nil {
		h.logger.Error("Failed to start session", "chat", chatID, "error", err)
		h.send(chatID, "❌ Error. Try again later.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	p, err := h.players.GetOrCreate(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to load player", "chat", chatID, "error", err)
		return
	}
	p.StartSession(ctl.Snapshot().Chips)
	if err := h.players.Save(ctx, p); err != nil {
		h.logger.Error("Failed to save player", "chat", chatID, "error", err)
	}
}

func (h *Handler) HandleHelp(chatID int64) {
	h.send(chatID,
		"📖 Blackjack rules:\n\n"+
			"🎯 Beat the dealer without going over 21\n\n"+
			"📊 Points:\n"+
			"• 2-10: face value\n"+
			"• J, Q, K: 10\n"+
			"• A: 11 or 1\n\n"+
			"🎮 Play:\n"+
			"• Bets from 10 to 100 in steps of 10\n"+
			"• Hit: take a card, Stand: let the dealer play\n"+
			"• Dealer draws to 17\n"+
			"• Five cards without busting wins (Charlie)\n\n"+
			"🎰 Blackjack pays x2.5\n\n"+
			"/start: new game\n"+
			"/table: show the table again\n"+
			"/stats: your statistics\n"+
			"/top: best players\n"+
			"/flip <heads|tails> <bet>: coin flip")
}

// HandleTable posts the current table as a new message.
func (h *Handler) HandleTable(chatID int64) {
	ctl := h.tables.Get(chatID)
	if ctl == nil {
		h.send(chatID, "Send /start to sit down at the table.")
		return
	}

	c := h.chat(chatID)
	c.mu.Lock()
	c.messageID = 0
	c.lastVersion = 0
	c.mu.Unlock()

	h.render(chatID, ctl.Snapshot())
}

func (h *Handler) HandleStats(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	p, err := h.players.GetOrCreate(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to load player", "chat", chatID, "error", err)
		h.send(chatID, "❌ Error")
		return
	}

	h.send(chatID, fmt.Sprintf(
		"📊 Statistics:\n"+
			"🎰 Sessions: %d\n"+
			"🎮 Rounds: %d\n"+
			"✅ Wins: %d (%.1f%%)\n"+
			"❌ Losses: %d\n"+
			"🤝 Pushes: %d\n"+
			"🃏 Blackjacks: %d\n"+
			"🖐 Charlies: %d\n"+
			"🏆 Best chips: %d",
		p.Sessions, p.Rounds, p.Wins, p.WinRate(), p.Losses, p.Pushes,
		p.Blackjacks, p.Charlies, p.BestChips))
}

func (h *Handler) HandleTop(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	stats, err := h.players.Top(ctx, 10)
	if err != nil {
		h.logger.Error("Failed to load leaderboard", "error", err)
		h.send(chatID, "❌ Error")
		return
	}

	if len(stats) == 0 {
		h.send(chatID, "🏆 Nobody has played yet!")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Top players:\n\n")

	medals := []string{"🥇", "🥈", "🥉"}
	for i, s := range stats {
		medal := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			medal = medals[i]
		}
		fmt.Fprintf(&sb, "%s %d 💰 | %d rounds (%.0f%%)\n", medal, s.BestChips, s.Rounds, s.WinRate)
	}

	h.send(chatID, sb.String())
}

func (h *Handler) HandleFlip(chatID int64, args []string) {
	usage := "Usage: /flip <heads|tails> <bet>"
	if len(args) != 2 {
		h.send(chatID, usage)
		return
	}

	side, err := coinflip.ParseSide(args[0])
	if err != nil {
		h.send(chatID, usage)
		return
	}
	bet, err := strconv.Atoi(args[1])
	if err != nil {
		h.send(chatID, usage)
		return
	}

	c := h.chat(chatID)
	c.mu.Lock()
	h.mu.Lock()
	res, err := c.wallet.Flip(h.rng, side, bet)
	h.mu.Unlock()
	money := c.wallet.Money
	c.mu.Unlock()

	switch {
	case errors.Is(err, coinflip.ErrInsufficientFunds):
		h.send(chatID, fmt.Sprintf("❌ You don't have enough money to place this bet! Money: %d", money))
		return
	case err != nil:
		h.send(chatID, "❌ The bet must be positive")
		return
	}

	verdict := "You lost!"
	if res.Won {
		verdict = "You won!"
	}
	h.send(chatID, fmt.Sprintf("🪙 %s! %s\n💵 Money: %d | 🏆 High score: %d",
		res.Landed, verdict, res.Money, res.HighScore))
}

// ============== CALLBACKS ==============

func (h *Handler) HandleCallback(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.Message.Chat == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch data {
	case CallbackNewSession:
		h.answerCallback(callback.ID, "")
		h.startSession(chatID, h.table(chatID))
		return
	case CallbackStats:
		h.answerCallback(callback.ID, "")
		h.HandleStats(chatID)
		return
	}

	ctl := h.tables.Get(chatID)
	if ctl == nil {
		h.answerCallback(callback.ID, "Send /start to play")
		return
	}

	var err error
	switch data {
	case CallbackBetDown:
		err = ctl.AdjustBet(-1)
	case CallbackBetUp:
		err = ctl.AdjustBet(1)
	case CallbackConfirm:
		err = ctl.Confirm()
	case CallbackHit:
		err = ctl.Hit()
	case CallbackStand:
		err = ctl.Stand()
	case CallbackPlayAgain:
		err = ctl.PlayAgain()
	default:
		h.logger.Warn("Unknown callback", "chat", chatID, "data", data)
	}

	if err != nil {
		h.logger.Debug("Action rejected", "chat", chatID, "action", data, "error", err)
		h.answerCallback(callback.ID, actionError(err))
		return
	}
	h.answerCallback(callback.ID, "")
}

// ============== MESSAGES ==============

func (h *Handler) HandleMessage(msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	parts := strings.Fields(msg.Text)

	if len(parts) == 0 {
		return
	}

	// Commands may carry the bot name, e.g. /start@casino_bot.
	cmd, _, _ := strings.Cut(strings.ToLower(parts[0]), "@")
	args := parts[1:]

	switch cmd {
	case "/start":
		h.HandleStart(chatID)
	case "/help":
		h.HandleHelp(chatID)
	case "/table":
		h.HandleTable(chatID)
	case "/stats":
		h.HandleStats(chatID)
	case "/top":
		h.HandleTop(chatID)
	case "/flip":
		h.HandleFlip(chatID, args)
	}
}
