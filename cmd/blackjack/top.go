package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"casino/internal/database"
	"casino/internal/player"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1E7B45")).
			Padding(0, 1).
			Bold(true)

	rankStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)
)

type TopCmd struct {
	Limit int `short:"n" default:"10" help:"Number of players to show"`
}

func (c *TopCmd) Run(g *Globals) error {
	cfg, err := g.config()
	if err != nil {
		return err
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := player.NewRepository(db.DB).Top(context.Background(), c.Limit)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}

	fmt.Println(titleStyle.Render(" 🏆 Top players "))
	fmt.Println()
	if len(stats) == 0 {
		fmt.Println("Nobody has played yet.")
		return nil
	}
	for i, s := range stats {
		fmt.Fprintf(os.Stdout, "%s %-12d %5d chips  %4d rounds  %5.1f%% wins\n",
			rankStyle.Render(fmt.Sprintf("%2d.", i+1)), s.ID, s.BestChips, s.Rounds, s.WinRate)
	}
	return nil
}
