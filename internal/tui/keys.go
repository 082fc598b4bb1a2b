package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"casino/internal/game"
	"casino/internal/session"
)

type keyMap struct {
	New     key.Binding
	BetDown key.Binding
	BetUp   key.Binding
	Deal    key.Binding
	Again   key.Binding
	Hit     key.Binding
	Stand   key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new game"),
		),
		BetDown: key.NewBinding(
			key.WithKeys("left", "-"),
			key.WithHelp("←", "bet down"),
		),
		BetUp: key.NewBinding(
			key.WithKeys("right", "+", "="),
			key.WithHelp("→", "bet up"),
		),
		Deal: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "deal"),
		),
		Again: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play again"),
		),
		Hit: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hit"),
		),
		Stand: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stand"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// sync enables only the bindings the snapshot allows, so help lists just
// those.
func (k *keyMap) sync(s session.Snapshot) {
	betting := s.State == game.Betting && !s.Busy
	k.BetDown.SetEnabled(betting)
	k.BetUp.SetEnabled(betting)
	k.Deal.SetEnabled(betting)
	k.Again.SetEnabled(s.CanPlayAgain())
	k.Hit.SetEnabled(s.CanAct())
	k.Stand.SetEnabled(s.CanAct())
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.BetDown, k.BetUp, k.Deal, k.Again, k.Hit, k.Stand, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.BetDown, k.BetUp, k.Deal},
		{k.Hit, k.Stand, k.Again},
		{k.New, k.Quit},
	}
}
