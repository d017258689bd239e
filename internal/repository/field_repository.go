package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Field represents a bookable football pitch owned by a field owner. The
// hourly rate travels as decimal text at the store boundary and as float64
// everywhere else.
type Field struct {
	ID          uint64    `json:"id"`
	OwnerID     uint64    `json:"owner_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description *string   `json:"description,omitempty"`
	HourlyRate  float64   `json:"hourly_rate"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FieldUpdate carries the optional attributes of a partial field update.
// Nil means "leave unchanged".
type FieldUpdate struct {
	Name        *string
	Address     *string
	Description *string
	HourlyRate  *float64
}

type FieldRepo struct{ db *sql.DB }

func NewFieldRepo(db *sql.DB) *FieldRepo { return &FieldRepo{db: db} }

const fieldCols = `id, owner_id, name, address, description, hourly_rate, created_at, updated_at`

func scanField(row interface{ Scan(...any) error }) (*Field, error) {
	var (
		f    Field
		desc sql.NullString
		rate string
	)
	if err := row.Scan(&f.ID, &f.OwnerID, &f.Name, &f.Address, &desc, &rate, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		f.Description = &d
	}
	v, err := parseAmount(rate)
	if err != nil {
		return nil, err
	}
	f.HourlyRate = v
	return &f, nil
}

// Create inserts a new field owned by ownerID and reads the row back so
// timestamps and defaults are populated.
func (r *FieldRepo) Create(ctx context.Context, f *Field) error {
	var desc any
	if f.Description != nil {
		desc = *f.Description
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO fields (owner_id, name, address, description, hourly_rate) VALUES (?,?,?,?,?)`,
		f.OwnerID, f.Name, f.Address, desc, formatAmount(f.HourlyRate))
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
	*f = *created
	return nil
}

// GetByID retrieves a field regardless of owner. Returns ErrFieldNotFound
// when no row exists.
func (r *FieldRepo) GetByID(ctx context.Context, id uint64) (*Field, error) {
	f, err := scanField(r.db.QueryRowContext(ctx,
		`SELECT `+fieldCols+` FROM fields WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFieldNotFound
	}
	return f, err
}

// Update applies the supplied subset of attributes to a field, but only
// when the field belongs to ownerID. A missing or foreign field yields
// ErrForbidden: callers cannot distinguish the two cases, matching the
// ownership rule for mutations.
func (r *FieldRepo) Update(ctx context.Context, id, ownerID uint64, upd FieldUpdate) (*Field, error) {
	cur, err := scanField(r.db.QueryRowContext(ctx,
		`SELECT `+fieldCols+` FROM fields WHERE id = ? AND owner_id = ?`, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		cur.Name = *upd.Name
	}
	if upd.Address != nil {
		cur.Address = *upd.Address
	}
	if upd.Description != nil {
		cur.Description = upd.Description
	}
	if upd.HourlyRate != nil {
		cur.HourlyRate = *upd.HourlyRate
	}
	var desc any
	if cur.Description != nil {
		desc = *cur.Description
	}
	const q = `UPDATE fields
	           SET name = ?, address = ?, description = ?, hourly_rate = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, cur.Name, cur.Address, desc, formatAmount(cur.HourlyRate), id, ownerID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrForbidden
	}
	return r.GetByID(ctx, id)
}

// List returns all fields ordered by id.
func (r *FieldRepo) List(ctx context.Context) ([]*Field, error) {
	return r.list(ctx, `SELECT `+fieldCols+` FROM fields ORDER BY id`)
}

// ListByOwner returns the fields owned by ownerID.
func (r *FieldRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Field, error) {
	return r.list(ctx, `SELECT `+fieldCols+` FROM fields WHERE owner_id = ? ORDER BY id`, ownerID)
}

func (r *FieldRepo) list(ctx context.Context, q string, args ...any) ([]*Field, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*Field, 0)
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
