package game

import (
	"errors"
	"fmt"
)

var ErrInvalidAction = errors.New("game: action not valid in this state")

// Round is one hand of blackjack from deal to result. Methods return a new
// Round and leave the receiver unchanged, so a Round can be kept as a snapshot.
type Round struct {
	deck   Deck
	cursor int
	dealer Hand
	player Hand
	state  State
	bet    int
}

// NewRound deals a fresh round from deck. A natural blackjack ends the round
// immediately.
func NewRound(deck Deck, bet int) (Round, error) {
	d, err := InitialDeal(deck)
	if err != nil {
		return Round{}, err
	}

	r := Round{
		deck:   deck,
		cursor: d.Cursor,
		dealer: d.Dealer,
		player: d.Player,
		state:  InPlay,
		bet:    bet,
	}
	if IsBlackjack(r.player) {
		r.state = PlayerBlackjack
	}
	return r, nil
}

func (r Round) State() State   { return r.state }
func (r Round) Bet() int       { return r.bet }
func (r Round) Cursor() int    { return r.cursor }
func (r Round) Dealer() Hand   { return r.dealer.Clone() }
func (r Round) Player() Hand   { return r.player.Clone() }
func (r Round) CardsLeft() int { return r.deck.Remaining(r.cursor) }

func (r Round) PlayerScore() Score { return HandValue(r.player, false) }
func (r Round) DealerScore() Score { return HandValue(r.dealer, true) }

// Hit deals the player one card. Reaching exactly 21 stands automatically.
func (r Round) Hit() (Round, error) {
	if r.state != InPlay {
		return r, fmt.Errorf("hit in %s: %w", r.state, ErrInvalidAction)
	}

	hand, cursor, err := Hit(r.deck, r.cursor, r.player)
	if err != nil {
		return r, fmt.Errorf("player hit: %w", err)
	}
	r.player, r.cursor = hand, cursor

	score := HandValue(r.player, false)
	switch {
	case score.Bust():
		r.state = PlayerBust
	case score.Charlie:
		r.state = PlayerCharlie
	case score.Points == Blackjack:
		r.state = DealerTurn
	}
	return r, nil
}

func (r Round) Stand() (Round, error) {
	if r.state != InPlay {
		return r, fmt.Errorf("stand in %s: %w", r.state, ErrInvalidAction)
	}
	r.state = DealerTurn
	return r, nil
}

func (r Round) DealerShouldHit() bool {
	return r.state == DealerTurn && DealerShouldHit(r.dealer)
}

// DealerHit deals the dealer a single card.
func (r Round) DealerHit() (Round, error) {
	if r.state != DealerTurn {
		return r, fmt.Errorf("dealer hit in %s: %w", r.state, ErrInvalidAction)
	}

	hand, cursor, err := Hit(r.deck, r.cursor, r.dealer)
	if err != nil {
		return r, fmt.Errorf("dealer hit: %w", err)
	}
	r.dealer, r.cursor = hand, cursor
	return r, nil
}

// Resolve settles the dealer turn against the player's hand.
func (r Round) Resolve() (Round, error) {
	if r.state != DealerTurn {
		return r, fmt.Errorf("resolve in %s: %w", r.state, ErrInvalidAction)
	}
	r.state = Resolve(r.player, r.dealer)
	return r, nil
}

// PlayOut stands if the player has not already, plays the dealer to
// completion and resolves the round.
func (r Round) PlayOut() (Round, error) {
	var err error
	if r.state == InPlay {
		r.state = DealerTurn
	}
	if r.state != DealerTurn {
		return r, fmt.Errorf("play out in %s: %w", r.state, ErrInvalidAction)
	}

	r.dealer, r.cursor, err = PlayDealer(r.deck, r.cursor, r.dealer)
	if err != nil {
		return r, err
	}
	return r.Resolve()
}

// Payout is the chip change for the round, zero until it is finished.
func (r Round) Payout() int {
	return Payout(r.state, r.bet)
}
