// Package coinflip implements the heads-or-tails betting game.
package coinflip

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const StartMoney = 100

var (
	ErrInvalidBet        = errors.New("coinflip: bet must be positive")
	ErrInsufficientFunds = errors.New("coinflip: not enough money for this bet")
	ErrUnknownSide       = errors.New("coinflip: side must be heads or tails")
)

type Side int

const (
	Heads Side = iota
	Tails
)

func (s Side) String() string {
	if s == Heads {
		return "Heads"
	}
	return "Tails"
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heads", "head", "h":
		return Heads, nil
	case "tails", "tail", "t":
		return Tails, nil
	}
	return Heads, fmt.Errorf("%q: %w", s, ErrUnknownSide)
}

// Wallet is a player's coin-flip money and best balance so far.
type Wallet struct {
	Money     int
	HighScore int
}

func NewWallet() *Wallet {
	return &Wallet{Money: StartMoney, HighScore: StartMoney}
}

type Result struct {
	Call      Side
	Landed    Side
	Bet       int
	Won       bool
	Money     int
	HighScore int
}

// Flip bets on call. A win adds the bet to the wallet, a loss takes it.
func (w *Wallet) Flip(rng *rand.Rand, call Side, bet int) (Result, error) {
	if bet <= 0 {
		return Result{}, ErrInvalidBet
	}
	if bet > w.Money {
		return Result{}, fmt.Errorf("bet %d with %d: %w", bet, w.Money, ErrInsufficientFunds)
	}

	landed := Tails
	if rng.Float64() < 0.5 {
		landed = Heads
	}

	won := landed == call
	if won {
		w.Money += bet
		w.HighScore = max(w.HighScore, w.Money)
	} else {
		w.Money -= bet
	}

	return Result{
		Call:      call,
		Landed:    landed,
		Bet:       bet,
		Won:       won,
		Money:     w.Money,
		HighScore: w.HighScore,
	}, nil
}
