package game

import "fmt"

func DealerShouldHit(hand Hand) bool {
	return HandValue(hand, true).Points < DealerStandsOn
}

// PlayDealer hits the dealer hand until it reaches 17 or more. It stops at the
// first total of 17 or above, soft totals included.
func PlayDealer(deck Deck, cursor int, hand Hand) (Hand, int, error) {
	for DealerShouldHit(hand) {
		var err error
		hand, cursor, err = Hit(deck, cursor, hand)
		if err != nil {
			return hand, cursor, fmt.Errorf("dealer hit: %w", err)
		}
	}
	return hand, cursor, nil
}
