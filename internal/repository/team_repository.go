package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Team groups players under a captain. The captain lives on the team row
// itself and is not an implicit team_members row; membership checks always
// consult both sources.
type Team struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	CaptainID   uint64    `json:"captain_id"`
	SkillLevel  uint8     `json:"skill_level"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TeamMember is one explicit membership row with the joined user's email
// for display.
type TeamMember struct {
	UserID   uint64    `json:"user_id"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

type TeamRepo struct{ db *sql.DB }

func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{db: db} }

const teamCols = `id, name, captain_id, skill_level, description, created_at, updated_at`

func scanTeam(row interface{ Scan(...any) error }) (*Team, error) {
	var (
		t    Team
		desc sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Name, &t.CaptainID, &t.SkillLevel, &desc, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		t.Description = &d
	}
	return &t, nil
}

// Create inserts a team captained by t.CaptainID and reads the row back.
func (r *TeamRepo) Create(ctx context.Context, t *Team) error {
	var desc any
	if t.Description != nil {
		desc = *t.Description
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (name, captain_id, skill_level, description) VALUES (?,?,?,?)`,
		t.Name, t.CaptainID, t.SkillLevel, desc)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

// GetByID retrieves a team. Returns ErrTeamNotFound when no row exists.
func (r *TeamRepo) GetByID(ctx context.Context, id uint64) (*Team, error) {
	t, err := scanTeam(r.db.QueryRowContext(ctx,
		`SELECT `+teamCols+` FROM teams WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	return t, err
}

// AddMember inserts a membership row with joined_at = now. The unique key
// on (team_id, user_id) backstops the pre-check under concurrency; both
// paths surface ErrAlreadyMember.
func (r *TeamRepo) AddMember(ctx context.Context, teamID, userID uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM team_members WHERE team_id = ? AND user_id = ? LIMIT 1`,
		teamID, userID).Scan(&one)
	if err == nil {
		return ErrAlreadyMember
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO team_members (team_id, user_id, joined_at) VALUES (?,?,?)`,
		teamID, userID, time.Now().UTC())
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") || strings.Contains(msg, "unique") {
			return ErrAlreadyMember
		}
	}
	return err
}

// RemoveMember deletes a membership row. The captain cannot be removed
// this way since the captaincy lives on the team row, not in the roster;
// that case yields ErrInvalidOperation. Returns ErrNotMember when no row
// existed for the pair.
func (r *TeamRepo) RemoveMember(ctx context.Context, teamID, userID uint64) error {
	var captainID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT captain_id FROM teams WHERE id = ?`, teamID).Scan(&captainID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTeamNotFound
	}
	if err != nil {
		return err
	}
	if userID == captainID {
		return ErrInvalidOperation
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM team_members WHERE team_id = ? AND user_id = ?`, teamID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotMember
	}
	return nil
}

// ListMembers returns the explicit membership rows of a team. The captain
// is not included unless separately inserted as a member.
func (r *TeamRepo) ListMembers(ctx context.Context, teamID uint64) ([]TeamMember, error) {
	const q = `SELECT tm.user_id, u.email, tm.joined_at
	           FROM team_members tm
	           JOIN users u ON u.id = tm.user_id
	           WHERE tm.team_id = ?
	           ORDER BY tm.joined_at, tm.user_id`
	rows, err := r.db.QueryContext(ctx, q, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TeamMember, 0)
	for rows.Next() {
		var m TeamMember
		if err := rows.Scan(&m.UserID, &m.Email, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// List returns all teams ordered by id.
func (r *TeamRepo) List(ctx context.Context) ([]*Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teamCols+` FROM teams ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListByUser returns the union of teams the user captains and teams the
// user belongs to as a member, deduplicated by team id. Captained teams
// come first; a team where the user is both captain and an explicit member
// appears exactly once.
func (r *TeamRepo) ListByUser(ctx context.Context, userID uint64) ([]*Team, error) {
	captained, err := r.listWhere(ctx,
		`SELECT `+teamCols+` FROM teams WHERE captain_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	member, err := r.listWhere(ctx,
		`SELECT t.id, t.name, t.captain_id, t.skill_level, t.description, t.created_at, t.updated_at
		 FROM teams t
		 JOIN team_members tm ON tm.team_id = t.id
		 WHERE tm.user_id = ?
		 ORDER BY t.id`, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint64]struct{}, len(captained)+len(member))
	out := make([]*Team, 0, len(captained)+len(member))
	for _, t := range append(captained, member...) {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func (r *TeamRepo) listWhere(ctx context.Context, q string, args ...any) ([]*Team, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// IsCaptainOrMemberTx reports whether userID is the team's captain or has a
// membership row, inside an existing transaction. Returns ErrTeamNotFound
// when the team does not exist.
func (r *TeamRepo) IsCaptainOrMemberTx(ctx context.Context, tx *sql.Tx, teamID, userID uint64) (bool, error) {
	var captainID uint64
	err := tx.QueryRowContext(ctx, `SELECT captain_id FROM teams WHERE id = ?`, teamID).Scan(&captainID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrTeamNotFound
	}
	if err != nil {
		return false, err
	}
	if captainID == userID {
		return true, nil
	}
	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM team_members WHERE team_id = ? AND user_id = ? LIMIT 1`,
		teamID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
