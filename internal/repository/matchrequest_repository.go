package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Valid values for match_requests.kind.
const (
	FindOpponent = "FIND_OPPONENT"
	FindPlayer   = "FIND_PLAYER"
)

// MatchRequest is a board post: a team looking for an opponent, or a
// player looking for a team.
type MatchRequest struct {
	ID            uint64     `json:"id"`
	UserID        uint64     `json:"user_id"`
	TeamID        *uint64    `json:"team_id,omitempty"`
	Kind          string     `json:"kind"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	PreferredDate *time.Time `json:"preferred_date,omitempty"`
	IsOpen        bool       `json:"is_open"`
	CreatedAt     time.Time  `json:"created_at"`
}

type MatchRequestRepo struct{ db *sql.DB }

func NewMatchRequestRepo(db *sql.DB) *MatchRequestRepo { return &MatchRequestRepo{db: db} }

const matchRequestCols = `id, user_id, team_id, kind, title, description, preferred_date, is_open, created_at`

func scanMatchRequest(row interface{ Scan(...any) error }) (*MatchRequest, error) {
	var (
		m    MatchRequest
		team sql.NullInt64
		desc sql.NullString
		date sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.UserID, &team, &m.Kind, &m.Title, &desc, &date, &m.IsOpen, &m.CreatedAt); err != nil {
		return nil, err
	}
	if team.Valid {
		id := uint64(team.Int64)
		m.TeamID = &id
	}
	if desc.Valid {
		d := desc.String
		m.Description = &d
	}
	if date.Valid {
		t := date.Time
		m.PreferredDate = &t
	}
	return &m, nil
}

// Create inserts an open match request and reads the row back.
func (r *MatchRequestRepo) Create(ctx context.Context, m *MatchRequest) error {
	var team, desc, date any
	if m.TeamID != nil {
		team = *m.TeamID
	}
	if m.Description != nil {
		desc = *m.Description
	}
	if m.PreferredDate != nil {
		date = m.PreferredDate.UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO match_requests (user_id, team_id, kind, title, description, preferred_date, is_open) VALUES (?,?,?,?,?,?,1)`,
		m.UserID, team, m.Kind, m.Title, desc, date)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := scanMatchRequest(r.db.QueryRowContext(ctx,
		`SELECT `+matchRequestCols+` FROM match_requests WHERE id = ?`, uint64(id)))
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// ListOpen returns open requests, newest first.
func (r *MatchRequestRepo) ListOpen(ctx context.Context) ([]*MatchRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+matchRequestCols+` FROM match_requests WHERE is_open = 1 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*MatchRequest, 0)
	for rows.Next() {
		m, err := scanMatchRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Close marks a request closed, but only for the user who posted it. A
// missing or foreign request yields ErrMatchRequestNotFound / ErrForbidden
// respectively.
func (r *MatchRequestRepo) Close(ctx context.Context, id, userID uint64) error {
	var posterID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM match_requests WHERE id = ?`, id).Scan(&posterID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMatchRequestNotFound
	}
	if err != nil {
		return err
	}
	if posterID != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE match_requests SET is_open = 0 WHERE id = ?`, id)
	return err
}
