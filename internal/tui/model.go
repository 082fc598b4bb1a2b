// Package tui is a terminal front end for a blackjack session.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"casino/internal/game"
	"casino/internal/session"
)

// snapshotMsg carries a controller snapshot into the update loop.
type snapshotMsg session.Snapshot

type Model struct {
	ctl    *session.Controller
	logger *log.Logger

	updates chan session.Snapshot
	snap    session.Snapshot
	keys    keyMap
	help    help.Model
	status  string
}

func New(ctl *session.Controller, logger *log.Logger) *Model {
	m := &Model{
		ctl:     ctl,
		logger:  logger.WithPrefix("tui"),
		updates: make(chan session.Snapshot, 1),
		snap:    ctl.Snapshot(),
		keys:    newKeyMap(),
		help:    help.New(),
	}
	m.keys.sync(m.snap)
	ctl.Observe(m.publish)
	return m
}

// Run shows the table until the player quits.
func Run(ctl *session.Controller, logger *log.Logger) error {
	_, err := tea.NewProgram(New(ctl, logger), tea.WithAltScreen()).Run()
	return err
}

// publish keeps only the newest undelivered snapshot. Timer callbacks call
// it, so it never blocks.
func (m *Model) publish(s session.Snapshot) {
	for {
		select {
		case m.updates <- s:
			return
		default:
		}
		select {
		case old := <-m.updates:
			if old.Version > s.Version {
				s = old
			}
		default:
		}
	}
}

func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-m.updates)
	}
}

func (m *Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.apply(session.Snapshot(msg))
		return m, m.waitForSnapshot()

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.ctl.Close()
			return m, tea.Quit
		}
		m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	var (
		action string
		err    error
	)
	switch {
	case key.Matches(msg, m.keys.New):
		action, err = "start", m.ctl.Start()
	case key.Matches(msg, m.keys.BetDown):
		action, err = "bet down", m.ctl.AdjustBet(-1)
	case key.Matches(msg, m.keys.BetUp):
		action, err = "bet up", m.ctl.AdjustBet(1)
	case key.Matches(msg, m.keys.Deal):
		action, err = "confirm", m.ctl.Confirm()
	case key.Matches(msg, m.keys.Again):
		action, err = "play again", m.ctl.PlayAgain()
	case key.Matches(msg, m.keys.Hit):
		action, err = "hit", m.ctl.Hit()
	case key.Matches(msg, m.keys.Stand):
		action, err = "stand", m.ctl.Stand()
	default:
		return
	}

	if err != nil {
		m.logger.Debug("Action rejected", "action", action, "error", err)
		m.status = statusFor(err)
		return
	}
	m.status = ""
	m.apply(m.ctl.Snapshot())
}

// apply takes s unless a newer snapshot is already shown.
func (m *Model) apply(s session.Snapshot) {
	if s.Version < m.snap.Version {
		return
	}
	m.snap = s
	m.keys.sync(s)
}

func statusFor(err error) string {
	switch {
	case errors.Is(err, session.ErrBusy):
		return "Wait for the dealer..."
	case errors.Is(err, session.ErrNotAllowed):
		return "You can't do that now."
	case errors.Is(err, game.ErrOutOfCards):
		return "The deck ran out."
	}
	return err.Error()
}

func renderHand(hand game.Hand, hole bool) string {
	if len(hand) == 0 && !hole {
		return LabelStyle.Render("-")
	}
	parts := make([]string, 0, len(hand)+1)
	for _, c := range hand {
		parts = append(parts, cardStyle(c).Render(c.String()))
	}
	if hole {
		parts = append(parts, HiddenCardStyle.Render("??"))
	}
	return strings.Join(parts, " ")
}

func (m *Model) View() string {
	s := m.snap

	var b strings.Builder
	b.WriteString(TitleStyle.Render(" ♠ ♥ Blackjack ♦ ♣ "))
	b.WriteString("\n\n")

	if s.State == game.RoundEnd {
		b.WriteString(InfoStyle.Render(session.Headline(s)))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	var table strings.Builder
	fmt.Fprintf(&table, "%s %s   %s %s\n",
		LabelStyle.Render("Chips:"), ChipsStyle.Render(fmt.Sprint(s.Chips)),
		LabelStyle.Render("Bet:"), ChipsStyle.Render(fmt.Sprint(s.Bet)))

	if len(s.Dealer) > 0 {
		fmt.Fprintf(&table, "\n%s %s  %s\n",
			LabelStyle.Render("Dealer:"), renderHand(s.Dealer, s.HoleHidden), LabelStyle.Render(s.DealerScore.String()))
		fmt.Fprintf(&table, "%s    %s  %s\n",
			LabelStyle.Render("You:"), renderHand(s.Player, false), LabelStyle.Render(s.PlayerScore.String()))
		fmt.Fprintf(&table, "%s\n", LabelStyle.Render(fmt.Sprintf("Round %d, %d cards left", s.Round, s.CardsLeft)))
	}

	fmt.Fprintf(&table, "\n%s", headlineStyle(s.State).Render(session.Headline(s)))
	switch {
	case s.Payout > 0:
		fmt.Fprintf(&table, "  %s", WinStyle.Render(fmt.Sprintf("+%d", s.Payout)))
	case s.Payout < 0:
		fmt.Fprintf(&table, "  %s", LoseStyle.Render(fmt.Sprint(s.Payout)))
	}

	b.WriteString(TableStyle.Render(table.String()))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(LoseStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
