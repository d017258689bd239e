// Package repotest provides an in-memory sqlite database with the
// application schema for repository and handler tests.
package repotest

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// NewDB opens a fresh in-memory database and installs the schema. Money
// columns are TEXT here so the decimal strings round-trip unchanged; the
// repositories only ever use portable SQL, so they run on both engines.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a second connection would see a different empty in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'PLAYER',
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE refresh_tokens (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			token_hash TEXT NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE fields (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			address TEXT NOT NULL,
			description TEXT NULL,
			hourly_rate TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE field_slots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			field_id INTEGER NOT NULL,
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL,
			price TEXT NOT NULL,
			is_available INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE teams (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			captain_id INTEGER NOT NULL,
			skill_level INTEGER NOT NULL,
			description TEXT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE team_members (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			team_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			joined_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (team_id, user_id)
		)`,
		`CREATE TABLE bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slot_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			team_id INTEGER NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			total_price TEXT NOT NULL,
			notes TEXT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE match_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			team_id INTEGER NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NULL,
			preferred_date DATETIME NULL,
			is_open INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE team_ratings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			team_id INTEGER NOT NULL,
			rater_id INTEGER NOT NULL,
			score INTEGER NOT NULL,
			comment TEXT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

// SeedUser inserts a user row directly and returns its id.
func SeedUser(t *testing.T, db *sql.DB, email, role string) uint64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO users (email, password_hash, role) VALUES (?,?,?)`,
		email, "x", role)
	require.NoError(t, err)
	return lastID(t, res)
}

// SeedField inserts a field row owned by ownerID.
func SeedField(t *testing.T, db *sql.DB, ownerID uint64, name string) uint64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO fields (owner_id, name, address, hourly_rate) VALUES (?,?,?,?)`,
		ownerID, name, "1 Stadium Way", "80.00")
	require.NoError(t, err)
	return lastID(t, res)
}

// SeedSlot inserts a one-hour slot on fieldID with the given price text.
func SeedSlot(t *testing.T, db *sql.DB, fieldID uint64, price string, available bool) uint64 {
	t.Helper()
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	avail := 0
	if available {
		avail = 1
	}
	res, err := db.Exec(
		`INSERT INTO field_slots (field_id, start_time, end_time, price, is_available) VALUES (?,?,?,?,?)`,
		fieldID, start, start.Add(time.Hour), price, avail)
	require.NoError(t, err)
	return lastID(t, res)
}

// SeedTeam inserts a team captained by captainID.
func SeedTeam(t *testing.T, db *sql.DB, captainID uint64, name string) uint64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO teams (name, captain_id, skill_level) VALUES (?,?,?)`,
		name, captainID, 5)
	require.NoError(t, err)
	return lastID(t, res)
}

func lastID(t *testing.T, res sql.Result) uint64 {
	t.Helper()
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}
