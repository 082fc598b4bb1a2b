package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bj.db")

	db, err := New(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'players'`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Migrating twice is harmless.
	require.NoError(t, migrate(db.DB))
}

func TestNewBadPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "dir", "bj.db"))
	assert.Error(t, err)
}
