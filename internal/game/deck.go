package game

import (
	"errors"
	"math/rand/v2"
	"slices"
)

// DeckSize is the number of cards in a single standard deck.
const DeckSize = 52

var ErrOutOfCards = errors.New("game: deck exhausted")

// Deck is an ordered, read-only sequence of cards. Cards leave it through a
// cursor owned by the caller; the deck itself is never consumed.
type Deck struct {
	cards []Card
}

// BuildDeck returns all 52 suit/rank combinations in a uniformly random order.
func BuildDeck(rng *rand.Rand) Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}

	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return Deck{cards: cards}
}

// NewDeck returns a deck that deals the given cards in order.
func NewDeck(cards ...Card) Deck {
	return Deck{cards: slices.Clone(cards)}
}

func (d Deck) Len() int {
	return len(d.cards)
}

func (d Deck) Cards() []Card {
	return slices.Clone(d.cards)
}

// Draw returns the card at cursor and the advanced cursor.
func (d Deck) Draw(cursor int) (Card, int, error) {
	if cursor < 0 || cursor >= len(d.cards) {
		return Card{}, cursor, ErrOutOfCards
	}
	return d.cards[cursor], cursor + 1, nil
}

// Remaining is the number of cards left after cursor.
func (d Deck) Remaining(cursor int) int {
	return max(len(d.cards)-cursor, 0)
}
