package game

// Resolve compares two finished hands. Blackjack, player bust and Charlie are
// settled before the dealer plays and never reach this comparison.
func Resolve(player, dealer Hand) State {
	playerValue := HandValue(player, false).Points
	dealerValue := HandValue(dealer, true).Points

	switch {
	case dealerValue > Blackjack:
		return DealerBust
	case dealerValue > playerValue:
		return DealerWins
	case playerValue > dealerValue:
		return PlayerWins
	default:
		return Push
	}
}

// Payout is the chip change for a finished round. A blackjack pays 2.5x the
// bet, rounded down.
func Payout(s State, bet int) int {
	switch s {
	case PlayerBlackjack:
		return bet * 5 / 2
	case PlayerWins, DealerBust, PlayerCharlie:
		return bet
	case PlayerBust, DealerWins:
		return -bet
	}
	return 0
}
