package game

// State is the round state shown to the player. Exactly one is active at a
// time; the terminal ones end the round.
type State int

const (
	RoundEnd State = iota
	Betting
	InPlay
	DealerTurn
	PlayerBlackjack
	PlayerBust
	PlayerCharlie
	DealerBust
	DealerWins
	PlayerWins
	Push
)

var stateNames = map[State]string{
	RoundEnd:        "round-end",
	Betting:         "betting",
	InPlay:          "in-play",
	DealerTurn:      "dealer-turn",
	PlayerBlackjack: "player-blackjack",
	PlayerBust:      "player-bust",
	PlayerCharlie:   "player-charlie",
	DealerBust:      "dealer-bust",
	DealerWins:      "dealer-wins",
	PlayerWins:      "player-wins",
	Push:            "push",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s >= PlayerBlackjack && s <= Push
}

// PlayerWon reports whether the state pays the player.
func (s State) PlayerWon() bool {
	switch s {
	case PlayerBlackjack, PlayerCharlie, DealerBust, PlayerWins:
		return true
	}
	return false
}

// PlayerLost reports whether the state takes the bet.
func (s State) PlayerLost() bool {
	return s == PlayerBust || s == DealerWins
}
