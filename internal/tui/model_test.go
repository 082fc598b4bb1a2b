package tui

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino/internal/game"
	"casino/internal/pacing"
	"casino/internal/session"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type harness struct {
	t     *testing.T
	ctx   context.Context
	clock *quartz.Mock
	pacer *pacing.Pacer
	m     *Model
}

func newHarness(t *testing.T, ranks ...game.Rank) *harness {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	cards := make([]game.Card, len(ranks))
	for i, r := range ranks {
		cards[i] = game.Card{Suit: game.Suits[i%len(game.Suits)], Rank: r}
	}
	deck := game.NewDeck(cards...)

	clock := quartz.NewMock(t)
	pacer := pacing.New(clock)
	logger := log.New(io.Discard)
	ctl := session.New(pacer,
		session.WithLogger(logger),
		session.WithDeckSource(func() game.Deck { return deck }))
	t.Cleanup(ctl.Close)

	return &harness{t: t, ctx: ctx, clock: clock, pacer: pacer, m: New(ctl, logger)}
}

func (h *harness) press(k tea.KeyMsg) tea.Cmd {
	_, cmd := h.m.Update(k)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle runs the paced steps and feeds the last published snapshot to the
// model the way the program loop would.
func (h *harness) settle() {
	h.t.Helper()
	for h.pacer.Pending() > 0 {
		_, w := h.clock.AdvanceNext()
		w.MustWait(h.ctx)
	}
	msg := h.m.waitForSnapshot()()
	h.m.Update(msg)
}

func TestStartAndBet(t *testing.T) {
	h := newHarness(t, game.Nine, game.Ten, game.Six, game.Seven)
	assert.Contains(t, h.m.View(), "Press start to play")

	h.press(runes("n"))
	assert.Equal(t, game.Betting, h.m.snap.State)
	assert.Contains(t, h.m.View(), "Place your bet: 10 (chips: 100)")

	h.press(tea.KeyMsg{Type: tea.KeyRight})
	h.press(tea.KeyMsg{Type: tea.KeyRight})
	h.press(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 20, h.m.snap.Bet)
}

func TestRoundPlaysThrough(t *testing.T) {
	// Dealer 9+7 draws a 5 to 21, player stands on 16.
	h := newHarness(t, game.Nine, game.Ten, game.Six, game.Seven, game.Five)

	h.press(runes("n"))
	h.press(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, h.m.snap.Busy)

	// Hit is disabled while cards are still being dealt.
	h.press(runes("h"))
	assert.Empty(t, h.m.status)
	assert.Len(t, h.m.snap.Player, 0)

	h.settle()
	assert.True(t, h.m.snap.CanAct())
	view := h.m.View()
	assert.Contains(t, view, "??")
	assert.Contains(t, view, "Hit or stand?")

	h.press(runes("s"))
	assert.Empty(t, h.m.status)
	h.settle()

	assert.Equal(t, game.DealerWins, h.m.snap.State)
	assert.Equal(t, 90, h.m.snap.Chips)
	view = h.m.View()
	assert.Contains(t, view, "Dealer Wins!")
	assert.Contains(t, view, "-10")
	assert.NotContains(t, view, "??")
	assert.Contains(t, view, "play again")

	h.press(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, game.Betting, h.m.snap.State)
}

func TestKeysFollowState(t *testing.T) {
	h := newHarness(t)

	assert.True(t, h.m.keys.New.Enabled())
	assert.False(t, h.m.keys.Deal.Enabled())
	assert.False(t, h.m.keys.Hit.Enabled())

	h.press(runes("n"))
	assert.True(t, h.m.keys.Deal.Enabled())
	assert.False(t, h.m.keys.Again.Enabled())
	assert.False(t, h.m.keys.Stand.Enabled())

	// A disabled binding does not match.
	assert.False(t, key.Matches(runes("h"), h.m.keys.Hit))
}

func TestShortDeckShowsError(t *testing.T) {
	h := newHarness(t, game.Nine, game.Ten)

	h.press(runes("n"))
	h.press(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "The deck ran out.", h.m.status)
	assert.Equal(t, game.Betting, h.m.snap.State)
	assert.Contains(t, h.m.View(), "The deck ran out.")
}

func TestQuit(t *testing.T) {
	h := newHarness(t)

	cmd := h.press(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestStaleSnapshotIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.press(runes("n"))
	current := h.m.snap

	old := current
	old.Version--
	old.Chips = 5
	h.m.Update(snapshotMsg(old))
	assert.Equal(t, current, h.m.snap)
}
