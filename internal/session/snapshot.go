package session

import (
	"fmt"

	"casino/internal/game"
)

// Snapshot is what a front end may show of a session. Cards the player
// should not see yet (the hole card, cards still being dealt) are left out.
type Snapshot struct {
	State       game.State
	Chips       int
	Bet         int
	Dealer      game.Hand
	Player      game.Hand
	DealerScore game.Score
	PlayerScore game.Score
	HoleHidden  bool
	Busy        bool
	GameOver    bool
	Payout      int
	Round       int
	CardsLeft   int

	// Version increases with every change, so observers can drop snapshots
	// that arrive out of order.
	Version uint64
}

// CanAct reports whether the player may hit or stand.
func (s Snapshot) CanAct() bool {
	return s.State == game.InPlay && !s.Busy
}

func (s Snapshot) CanPlayAgain() bool {
	return s.State.Terminal() && !s.GameOver && !s.Busy
}

var headlines = map[game.State]string{
	game.RoundEnd:        "Press start to play",
	game.DealerTurn:      "Dealer is playing...",
	game.PlayerBlackjack: "🎉 BLACKJACK! You Win! 🎉",
	game.PlayerBust:      "You Busted! Dealer Wins!",
	game.PlayerCharlie:   "🎉 Five-card Charlie! You Win! 🎉",
	game.DealerBust:      "🎉 Dealer Busted! You Win! 🎉",
	game.DealerWins:      "Dealer Wins!",
	game.PlayerWins:      "🎉 You Win! 🎉",
	game.Push:            "Push! It's a Tie!",
}

// Headline is the one-line status shown above the table.
func Headline(s Snapshot) string {
	switch s.State {
	case game.Betting:
		return fmt.Sprintf("Place your bet: %d (chips: %d)", s.Bet, s.Chips)
	case game.InPlay:
		if s.Busy {
			return "Dealing..."
		}
		return "Hit or stand?"
	}

	msg, ok := headlines[s.State]
	if !ok {
		return s.State.String()
	}
	if s.GameOver {
		msg += " Out of chips, game over."
	}
	return msg
}
