package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Valid values for bookings.status. The state machine is deliberately
// permissive: any status may be set by an authorized party, including
// moving a cancelled booking back to pending.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// ValidBookingStatus reports whether s is one of the three booking states.
func ValidBookingStatus(s string) bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCancelled
}

// Booking reserves one field slot for a user, optionally on behalf of a
// team. TotalPrice is snapshotted from the slot's price at creation and
// never recomputed.
type Booking struct {
	ID         uint64    `json:"id"`
	SlotID     uint64    `json:"slot_id"`
	UserID     uint64    `json:"user_id"`
	TeamID     *uint64   `json:"team_id,omitempty"`
	Status     string    `json:"status"`
	TotalPrice float64   `json:"total_price"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BookingDetail extends a booking with field and slot information for list
// views, resolved through the slot -> field join chain.
type BookingDetail struct {
	Booking
	FieldID   uint64    `json:"field_id"`
	FieldName string    `json:"field_name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can run the create/status
// sequences inside one transaction spanning bookings and field_slots.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = `id, slot_id, user_id, team_id, status, total_price, notes, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*Booking, error) {
	var (
		b      Booking
		teamID sql.NullInt64
		total  string
		notes  sql.NullString
	)
	if err := row.Scan(&b.ID, &b.SlotID, &b.UserID, &teamID, &b.Status, &total, &notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if teamID.Valid {
		id := uint64(teamID.Int64)
		b.TeamID = &id
	}
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}
	v, err := parseAmount(total)
	if err != nil {
		return nil, err
	}
	b.TotalPrice = v
	return &b, nil
}

// CreateTx inserts a booking row within an existing transaction and reads
// it back so defaults and timestamps are populated. Status is always
// PENDING on creation; TotalPrice must already hold the slot's price.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *Booking) error {
	var teamID, notes any
	if b.TeamID != nil {
		teamID = *b.TeamID
	}
	if b.Notes != nil {
		notes = *b.Notes
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (slot_id, user_id, team_id, status, total_price, notes) VALUES (?,?,?,?,?,?)`,
		b.SlotID, b.UserID, teamID, BookingPending, formatAmount(b.TotalPrice), notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = ?`, uint64(id)))
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// GetByID retrieves a booking. Returns ErrBookingNotFound when missing.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// GetAuthInfoTx loads a booking together with the owner of its slot's
// field, inside tx. Status changes are allowed only to the booking's
// creator or that owner; the caller performs the comparison.
func (r *BookingRepo) GetAuthInfoTx(ctx context.Context, tx *sql.Tx, id uint64) (*Booking, uint64, error) {
	const q = `SELECT b.id, b.slot_id, b.user_id, b.team_id, b.status, b.total_price, b.notes, b.created_at, b.updated_at,
	                  f.owner_id
	           FROM bookings b
	           JOIN field_slots s ON s.id = b.slot_id
	           JOIN fields f ON f.id = s.field_id
	           WHERE b.id = ?`
	var (
		b       Booking
		teamID  sql.NullInt64
		total   string
		notes   sql.NullString
		ownerID uint64
	)
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.SlotID, &b.UserID, &teamID, &b.Status, &total, &notes, &b.CreatedAt, &b.UpdatedAt,
		&ownerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrBookingNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	if teamID.Valid {
		tid := uint64(teamID.Int64)
		b.TeamID = &tid
	}
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}
	v, err := parseAmount(total)
	if err != nil {
		return nil, 0, err
	}
	b.TotalPrice = v
	return &b, ownerID, nil
}

// UpdateStatusTx sets the booking status and refreshes updated_at, inside
// tx. No transition table restricts which statuses may follow which.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

const bookingDetailQ = `SELECT b.id, b.slot_id, b.user_id, b.team_id, b.status, b.total_price, b.notes, b.created_at, b.updated_at,
                               f.id, f.name, s.start_time, s.end_time
                        FROM bookings b
                        JOIN field_slots s ON s.id = b.slot_id
                        JOIN fields f ON f.id = s.field_id`

// GetDetail returns one booking with field and slot detail.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*BookingDetail, error) {
	out, err := r.listDetails(ctx, bookingDetailQ+` WHERE b.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrBookingNotFound
	}
	return &out[0], nil
}

// ListByUser returns the bookings created by userID with field and slot
// detail, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	return r.listDetails(ctx, bookingDetailQ+` WHERE b.user_id = ? ORDER BY b.created_at DESC, b.id DESC`, userID)
}

// ListByFieldOwner returns all bookings placed on fields owned by ownerID,
// newest first.
func (r *BookingRepo) ListByFieldOwner(ctx context.Context, ownerID uint64) ([]BookingDetail, error) {
	return r.listDetails(ctx, bookingDetailQ+` WHERE f.owner_id = ? ORDER BY b.created_at DESC, b.id DESC`, ownerID)
}

func (r *BookingRepo) listDetails(ctx context.Context, q string, args ...any) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var (
			d      BookingDetail
			teamID sql.NullInt64
			total  string
			notes  sql.NullString
		)
		if err := rows.Scan(
			&d.ID, &d.SlotID, &d.UserID, &teamID, &d.Status, &total, &notes, &d.CreatedAt, &d.UpdatedAt,
			&d.FieldID, &d.FieldName, &d.StartTime, &d.EndTime,
		); err != nil {
			return nil, err
		}
		if teamID.Valid {
			tid := uint64(teamID.Int64)
			d.TeamID = &tid
		}
		if notes.Valid {
			n := notes.String
			d.Notes = &n
		}
		v, err := parseAmount(total)
		if err != nil {
			return nil, err
		}
		d.TotalPrice = v
		out = append(out, d)
	}
	return out, rows.Err()
}
