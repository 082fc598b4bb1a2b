package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the sqlite handle behind the player statistics store.
type DB struct {
	*sql.DB
}

// New opens the sqlite file at path, creating it if needed, and migrates the
// players table that holds lifetime blackjack stats and best chip balances.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		player_id INTEGER PRIMARY KEY,
		sessions INTEGER DEFAULT 0,
		rounds INTEGER DEFAULT 0,
		wins INTEGER DEFAULT 0,
		losses INTEGER DEFAULT 0,
		pushes INTEGER DEFAULT 0,
		blackjacks INTEGER DEFAULT 0,
		charlies INTEGER DEFAULT 0,
		best_chips INTEGER DEFAULT 0,
		last_bet INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_players_best_chips ON players(best_chips);
	CREATE INDEX IF NOT EXISTS idx_players_rounds ON players(rounds);
	`

	_, err := db.Exec(schema)
	return err
}
