package repository

import (
	"context"
	"database/sql"
	"time"
)

// TeamRating is one post-match score for a team, 1..5.
type TeamRating struct {
	ID        uint64    `json:"id"`
	TeamID    uint64    `json:"team_id"`
	RaterID   uint64    `json:"rater_id"`
	Score     uint8     `json:"score"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingSummary is the aggregate view of a team's ratings.
type RatingSummary struct {
	TeamID  uint64  `json:"team_id"`
	Average float64 `json:"average"`
	Count   uint64  `json:"count"`
}

type RatingRepo struct{ db *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// Create inserts a rating and reads it back.
func (r *RatingRepo) Create(ctx context.Context, rt *TeamRating) error {
	var comment any
	if rt.Comment != nil {
		comment = *rt.Comment
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO team_ratings (team_id, rater_id, score, comment) VALUES (?,?,?,?)`,
		rt.TeamID, rt.RaterID, rt.Score, comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	var cm sql.NullString
	err = r.db.QueryRowContext(ctx,
		`SELECT id, team_id, rater_id, score, comment, created_at FROM team_ratings WHERE id = ?`,
		uint64(id)).Scan(&rt.ID, &rt.TeamID, &rt.RaterID, &rt.Score, &cm, &rt.CreatedAt)
	if err != nil {
		return err
	}
	if cm.Valid {
		c := cm.String
		rt.Comment = &c
	}
	return nil
}

// Summary computes the average score and count for a team. A team with no
// ratings yet reports a zero average and zero count.
func (r *RatingRepo) Summary(ctx context.Context, teamID uint64) (RatingSummary, error) {
	s := RatingSummary{TeamID: teamID}
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(score), COUNT(*) FROM team_ratings WHERE team_id = ?`, teamID).
		Scan(&avg, &s.Count)
	if err != nil {
		return s, err
	}
	if avg.Valid {
		s.Average = avg.Float64
	}
	return s, nil
}
