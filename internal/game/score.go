package game

import (
	"slices"
	"strconv"
	"strings"
)

const (
	Blackjack = 21

	// DealerStandsOn is the lowest total the dealer stands on.
	DealerStandsOn = 17

	// CharlieCards is the hand size at which a non-busted player hand wins outright.
	CharlieCards = 5
)

type Hand []Card

// Append returns a new hand with c added; h is left untouched.
func (h Hand) Append(c Card) Hand {
	out := make(Hand, len(h), len(h)+1)
	copy(out, h)
	return append(out, c)
}

func (h Hand) Clone() Hand {
	return slices.Clone(h)
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Score is the value of a hand. When Charlie is set the hand wins regardless
// of Points.
type Score struct {
	Points  int
	Soft    bool
	Charlie bool
}

func (s Score) String() string {
	if s.Charlie {
		return "Charlie"
	}
	if s.Soft {
		return "soft " + strconv.Itoa(s.Points)
	}
	return strconv.Itoa(s.Points)
}

func (s Score) Bust() bool {
	return s.Points > Blackjack
}

// HandValue sums the non-ace cards, then adds each ace in turn as 11 when
// that keeps the total at or below 21 and as 1 otherwise. A player hand of
// five or more cards that has not busted is a Charlie; dealers never are.
func HandValue(hand Hand, isDealer bool) Score {
	var s Score
	aces := 0

	for _, c := range hand {
		if c.Rank == Ace {
			aces++
			continue
		}
		s.Points += c.Rank.Points()
	}

	for range aces {
		if s.Points+11 <= Blackjack {
			s.Points += 11
			s.Soft = true
		} else {
			s.Points++
		}
	}

	if !isDealer && len(hand) >= CharlieCards && s.Points <= Blackjack {
		s.Charlie = true
	}
	return s
}

func IsBlackjack(hand Hand) bool {
	return len(hand) == 2 && HandValue(hand, false).Points == Blackjack
}

func IsBust(hand Hand) bool {
	return HandValue(hand, false).Bust()
}
