package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/turf-match-finder/internal/repository/repotest"
)

func newTestDB(t *testing.T) *sql.DB { return repotest.NewDB(t) }

func seedUser(t *testing.T, db *sql.DB, email, role string) uint64 {
	return repotest.SeedUser(t, db, email, role)
}

func seedField(t *testing.T, db *sql.DB, ownerID uint64, name string) uint64 {
	return repotest.SeedField(t, db, ownerID, name)
}

func seedSlot(t *testing.T, db *sql.DB, fieldID uint64, price string, available bool) uint64 {
	return repotest.SeedSlot(t, db, fieldID, price, available)
}

func seedTeam(t *testing.T, db *sql.DB, captainID uint64, name string) uint64 {
	return repotest.SeedTeam(t, db, captainID, name)
}

func beginTx(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	return tx
}
