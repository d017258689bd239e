package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// FieldSlot is a bookable window of time on a field. New slots always start
// available; availability is claimed atomically when a booking is created
// and released again when the booking is cancelled.
type FieldSlot struct {
	ID          uint64    `json:"id"`
	FieldID     uint64    `json:"field_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Price       float64   `json:"price"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SlotRepo struct{ db *sql.DB }

func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span slots and bookings.
func (r *SlotRepo) DB() *sql.DB { return r.db }

const slotCols = `id, field_id, start_time, end_time, price, is_available, created_at, updated_at`

func scanSlot(row interface{ Scan(...any) error }) (*FieldSlot, error) {
	var (
		s     FieldSlot
		price string
	)
	if err := row.Scan(&s.ID, &s.FieldID, &s.StartTime, &s.EndTime, &price, &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	v, err := parseAmount(price)
	if err != nil {
		return nil, err
	}
	s.Price = v
	return &s, nil
}

// Create inserts a slot for a field. Overlapping ranges on the same field
// are allowed; a field may expose parallel bookable units.
func (r *SlotRepo) Create(ctx context.Context, s *FieldSlot) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO field_slots (field_id, start_time, end_time, price, is_available) VALUES (?,?,?,?,1)`,
		s.FieldID, s.StartTime.UTC(), s.EndTime.UTC(), formatAmount(s.Price))
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
	*s = *created
	return nil
}

// GetByID retrieves a slot. Returns ErrSlotNotFound when no row exists.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (*FieldSlot, error) {
	s, err := scanSlot(r.db.QueryRowContext(ctx,
		`SELECT `+slotCols+` FROM field_slots WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	return s, err
}

// GetTx is GetByID within an existing transaction.
func (r *SlotRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*FieldSlot, error) {
	s, err := scanSlot(tx.QueryRowContext(ctx,
		`SELECT `+slotCols+` FROM field_slots WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	return s, err
}

// ClaimTx atomically flips a slot from available to unavailable inside tx.
// ErrConflict means the slot was already taken: two callers can both
// observe an available slot, but only one conditional update affects a
// row.
func (r *SlotRepo) ClaimTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE field_slots SET is_available = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_available = 1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ReleaseTx returns a slot to the available pool inside tx.
func (r *SlotRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE field_slots SET is_available = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// ListAvailable returns every slot still open for booking, soonest first.
func (r *SlotRepo) ListAvailable(ctx context.Context) ([]*FieldSlot, error) {
	return r.list(ctx, `SELECT `+slotCols+` FROM field_slots WHERE is_available = 1 ORDER BY start_time, id`)
}

// ListByField returns all slots of one field, soonest first.
func (r *SlotRepo) ListByField(ctx context.Context, fieldID uint64) ([]*FieldSlot, error) {
	return r.list(ctx, `SELECT `+slotCols+` FROM field_slots WHERE field_id = ? ORDER BY start_time, id`, fieldID)
}

func (r *SlotRepo) list(ctx context.Context, q string, args ...any) ([]*FieldSlot, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*FieldSlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
