package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"casino/internal/game"
	"casino/internal/pacing"
	"casino/internal/randutil"
)

var (
	ErrNotAllowed = errors.New("session: action not allowed now")
	ErrBusy       = errors.New("session: table is busy")

	errStale = errors.New("session: stale step")
)

// initialCards is the number of cards in the opening deal.
const initialCards = 4

// Controller runs one player's session: betting, dealing, the player's and
// the dealer's turns, and settlement. It is safe for concurrent use; paced
// steps run on the pacer's clock.
type Controller struct {
	rules   Rules
	timings pacing.Timings
	pacer   *pacing.Pacer
	logger  *log.Logger
	newDeck func() game.Deck

	mu        sync.Mutex
	observers []func(Snapshot)
	state     game.State
	round     game.Round
	inRound   bool
	dealt     int
	chips     int
	bet       int
	gameOver  bool
	payout    int
	rounds    int
	version   uint64
	task      *pacing.Task
}

type Option func(*Controller)

func WithRules(r Rules) Option {
	return func(c *Controller) { c.rules = r }
}

func WithTimings(t pacing.Timings) Option {
	return func(c *Controller) { c.timings = t }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithRand shuffles every round's deck with rng.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		c.newDeck = func() game.Deck { return game.BuildDeck(rng) }
	}
}

// WithDeckSource replaces deck building, e.g. to replay stacked decks.
func WithDeckSource(fn func() game.Deck) Option {
	return func(c *Controller) { c.newDeck = fn }
}

func New(pacer *pacing.Pacer, opts ...Option) *Controller {
	c := &Controller{
		rules:   DefaultRules(),
		timings: pacing.DefaultTimings(),
		pacer:   pacer,
		logger:  log.Default().WithPrefix("session"),
		state:   game.RoundEnd,
	}
	WithRand(randutil.New(0))(c)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observe registers fn to receive a snapshot after every change.
func (c *Controller) Observe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close cancels any pending step.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

// Start begins a fresh session from any state.
func (c *Controller) Start() error {
	return c.do(func() error {
		c.cancelLocked()
		c.resetRoundLocked()
		c.chips = c.rules.StartChips
		c.bet = c.rules.ClampBet(c.rules.DefaultBet, c.chips)
		c.gameOver = false
		c.state = game.Betting

		c.logger.Info("Session started", "chips", c.chips, "bet", c.bet)
		return nil
	})
}

// AdjustBet moves the bet by steps increments of the bet step.
func (c *Controller) AdjustBet(steps int) error {
	return c.do(func() error {
		if err := c.guardLocked("adjust bet", game.Betting); err != nil {
			return err
		}
		c.bet = c.rules.ClampBet(c.bet+steps*c.rules.BetStep, c.chips)
		return nil
	})
}

func (c *Controller) SetBet(bet int) error {
	return c.do(func() error {
		if err := c.guardLocked("set bet", game.Betting); err != nil {
			return err
		}
		c.bet = c.rules.ClampBet(bet, c.chips)
		return nil
	})
}

// Confirm locks in the bet and deals the round.
func (c *Controller) Confirm() error {
	return c.do(func() error {
		if err := c.guardLocked("confirm", game.Betting); err != nil {
			return err
		}

		c.bet = c.rules.ClampBet(c.bet, c.chips)
		r, err := game.NewRound(c.newDeck(), c.bet)
		if err != nil {
			return fmt.Errorf("deal round: %w", err)
		}

		c.round = r
		c.inRound = true
		c.payout = 0
		c.rounds++
		c.state = game.InPlay
		c.dealt = 1

		c.logger.Debug("Round dealt", "round", c.rounds, "bet", c.bet)
		c.scheduleLocked("deal", c.timings.CardDeal, c.dealStepLocked)
		return nil
	})
}

func (c *Controller) Hit() error {
	return c.do(func() error {
		if err := c.guardLocked("hit", game.InPlay); err != nil {
			return err
		}

		r, err := c.round.Hit()
		if err != nil {
			return err
		}
		c.round = r
		c.logger.Debug("Player hit", "round", c.rounds, "score", r.PlayerScore())

		switch {
		case r.State().Terminal():
			c.settleLocked()
		case r.State() == game.DealerTurn:
			c.dealerTurnLocked()
		}
		return nil
	})
}

func (c *Controller) Stand() error {
	return c.do(func() error {
		if err := c.guardLocked("stand", game.InPlay); err != nil {
			return err
		}

		r, err := c.round.Stand()
		if err != nil {
			return err
		}
		c.round = r
		c.dealerTurnLocked()
		return nil
	})
}

// PlayAgain returns to betting after a finished round, keeping the chips.
func (c *Controller) PlayAgain() error {
	return c.do(func() error {
		if c.task != nil {
			return fmt.Errorf("play again: %w", ErrBusy)
		}
		if !c.state.Terminal() || c.gameOver {
			return fmt.Errorf("play again in %s: %w", c.state, ErrNotAllowed)
		}

		c.resetRoundLocked()
		c.bet = c.rules.ClampBet(c.bet, c.chips)
		c.state = game.Betting
		return nil
	})
}

// do runs fn under the lock and, on success, hands the new snapshot to the
// observers once the lock is released.
func (c *Controller) do(fn func() error) error {
	c.mu.Lock()
	err := fn()
	if err == nil {
		c.version++
	}
	snap := c.snapshotLocked()
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	if err != nil {
		return err
	}
	for _, o := range observers {
		o(snap)
	}
	return nil
}

func (c *Controller) guardLocked(action string, want game.State) error {
	if c.task != nil {
		return fmt.Errorf("%s: %w", action, ErrBusy)
	}
	if c.state != want {
		return fmt.Errorf("%s in %s: %w", action, c.state, ErrNotAllowed)
	}
	return nil
}

func (c *Controller) scheduleLocked(name string, d time.Duration, step func()) {
	var task *pacing.Task
	task = c.pacer.After(name, d, func() {
		_ = c.do(func() error {
			if c.task != task {
				return errStale
			}
			c.task = nil
			step()
			return nil
		})
	})
	c.task = task
}

func (c *Controller) cancelLocked() {
	if c.task == nil {
		return
	}
	c.task.Cancel()
	c.task = nil
}

func (c *Controller) resetRoundLocked() {
	c.round = game.Round{}
	c.inRound = false
	c.dealt = 0
	c.payout = 0
}

func (c *Controller) dealStepLocked() {
	c.dealt++
	if c.dealt < initialCards {
		c.scheduleLocked("deal", c.timings.CardDeal, c.dealStepLocked)
		return
	}
	if c.round.State() == game.PlayerBlackjack {
		c.settleLocked()
	}
}

func (c *Controller) dealerTurnLocked() {
	c.state = game.DealerTurn
	c.dealerStepLocked()
}

func (c *Controller) dealerStepLocked() {
	if !c.round.DealerShouldHit() {
		c.scheduleLocked("result", c.timings.FinalDelay, c.finishLocked)
		return
	}

	c.scheduleLocked("dealer", c.timings.DealerTurn, func() {
		r, err := c.round.DealerHit()
		if err != nil {
			c.logger.Error("Dealer cannot draw, standing", "round", c.rounds, "error", err)
			c.scheduleLocked("result", c.timings.FinalDelay, c.finishLocked)
			return
		}
		c.round = r
		c.dealerStepLocked()
	})
}

func (c *Controller) finishLocked() {
	r, err := c.round.Resolve()
	if err != nil {
		c.logger.Error("Resolve failed", "round", c.rounds, "error", err)
		return
	}
	c.round = r
	c.settleLocked()
}

func (c *Controller) settleLocked() {
	c.state = c.round.State()
	c.payout = c.round.Payout()
	c.chips += c.payout
	if c.chips <= 0 {
		c.gameOver = true
	}

	c.logger.Info("Round settled",
		"round", c.rounds,
		"result", c.state,
		"payout", c.payout,
		"chips", c.chips,
		"game_over", c.gameOver)
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:    c.state,
		Chips:    c.chips,
		Bet:      c.bet,
		Busy:     c.task != nil,
		GameOver: c.gameOver,
		Payout:   c.payout,
		Round:    c.rounds,
		Version:  c.version,
	}
	if !c.inRound {
		return s
	}

	dealer, player := c.round.Dealer(), c.round.Player()
	if c.dealt < initialCards {
		// Deal order is dealer, player, player, dealer.
		dealer = dealer[:1]
		player = player[:min(max(c.dealt-1, 0), len(player))]
	}
	if c.state == game.InPlay && c.dealt >= initialCards {
		s.HoleHidden = true
		dealer = dealer[:1]
	}

	s.Dealer = dealer
	s.Player = player
	s.DealerScore = game.HandValue(dealer, true)
	s.PlayerScore = game.HandValue(player, false)
	s.CardsLeft = c.round.CardsLeft()
	return s
}
