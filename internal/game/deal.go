package game

import "fmt"

type Deal struct {
	Dealer Hand
	Player Hand
	Cursor int
}

// InitialDeal deals from the top of deck in table order: one card to the
// dealer, two to the player, then the dealer's second card.
func InitialDeal(deck Deck) (Deal, error) {
	var (
		d      Deal
		cursor int
	)
	seats := []*Hand{&d.Dealer, &d.Player, &d.Player, &d.Dealer}
	for _, seat := range seats {
		c, next, err := deck.Draw(cursor)
		if err != nil {
			return Deal{}, fmt.Errorf("initial deal: %w", err)
		}
		*seat = seat.Append(c)
		cursor = next
	}
	d.Cursor = cursor
	return d, nil
}

// Hit appends deck[cursor] to hand and returns the new hand and cursor.
func Hit(deck Deck, cursor int, hand Hand) (Hand, int, error) {
	c, next, err := deck.Draw(cursor)
	if err != nil {
		return hand, cursor, err
	}
	return hand.Append(c), next, nil
}
