package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"casino/internal/game"
)

// Player holds lifetime blackjack statistics. Chips themselves live in the
// session and are not carried between sessions; only the best balance is.
type Player struct {
	ID         int64
	Sessions   int
	Rounds     int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Charlies   int
	BestChips  int
	LastBet    int
}

type Stats struct {
	ID        int64
	BestChips int
	Wins      int
	Rounds    int
	WinRate   float64
}

type Repository interface {
	GetOrCreate(ctx context.Context, id int64) (*Player, error)
	Save(ctx context.Context, p *Player) error
	Top(ctx context.Context, limit int) ([]Stats, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetOrCreate(ctx context.Context, id int64) (*Player, error) {
	p := &Player{ID: id}

	err := r.db.QueryRowContext(ctx, `
		SELECT sessions, rounds, wins, losses, pushes, blackjacks, charlies, best_chips, last_bet
		FROM players WHERE player_id = ?
	`, id).Scan(
		&p.Sessions, &p.Rounds, &p.Wins, &p.Losses, &p.Pushes,
		&p.Blackjacks, &p.Charlies, &p.BestChips, &p.LastBet,
	)

	if errors.Is(err, sql.ErrNoRows) {
		_, err = r.db.ExecContext(ctx, `INSERT INTO players (player_id) VALUES (?)`, id)
		if err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return p, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return p, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, p *Player) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE players SET
			sessions = ?, rounds = ?, wins = ?, losses = ?, pushes = ?,
			blackjacks = ?, charlies = ?, best_chips = ?, last_bet = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE player_id = ?
	`, p.Sessions, p.Rounds, p.Wins, p.Losses, p.Pushes,
		p.Blackjacks, p.Charlies, p.BestChips, p.LastBet, p.ID)

	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

// Top lists players who finished at least one round, best balance first.
func (r *SQLiteRepository) Top(ctx context.Context, limit int) ([]Stats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, best_chips, wins, rounds
		FROM players
		WHERE rounds > 0
		ORDER BY best_chips DESC, wins DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.ID, &s.BestChips, &s.Wins, &s.Rounds); err != nil {
			return nil, err
		}
		if s.Rounds > 0 {
			s.WinRate = float64(s.Wins) / float64(s.Rounds) * 100
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func (p *Player) StartSession(chips int) {
	p.Sessions++
	p.BestChips = max(p.BestChips, chips)
}

// RecordRound counts a finished round and the balance it left.
func (p *Player) RecordRound(result game.State, bet, chips int) {
	p.Rounds++
	p.LastBet = bet
	p.BestChips = max(p.BestChips, chips)

	switch {
	case result.PlayerWon():
		p.Wins++
	case result.PlayerLost():
		p.Losses++
	default:
		p.Pushes++
	}

	switch result {
	case game.PlayerBlackjack:
		p.Blackjacks++
	case game.PlayerCharlie:
		p.Charlies++
	}
}

func (p *Player) WinRate() float64 {
	if p.Rounds == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Rounds) * 100
}
