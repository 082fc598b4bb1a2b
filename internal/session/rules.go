package session

// Rules are the table limits for a session.
type Rules struct {
	StartChips int
	DefaultBet int
	MinBet     int
	MaxBet     int
	BetStep    int
}

func DefaultRules() Rules {
	return Rules{
		StartChips: 100,
		DefaultBet: 10,
		MinBet:     10,
		MaxBet:     100,
		BetStep:    10,
	}
}

// ClampBet fits bet into [MinBet, min(MaxBet, chips)] on a BetStep grid. A
// player holding fewer chips than MinBet bets everything they have.
func (r Rules) ClampBet(bet, chips int) int {
	bet = min(bet, r.MaxBet, chips)
	if r.BetStep > 0 {
		bet = bet / r.BetStep * r.BetStep
	}
	bet = max(bet, r.MinBet)
	return min(bet, chips)
}
