package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/turf-match-finder/internal/queue"
	"github.com/appdotbuilder/turf-match-finder/internal/repository"
	queue_publisher "github.com/appdotbuilder/turf-match-finder/internal/service"
)

// BookingHandler drives the booking lifecycle: creation with an atomic
// slot claim, status transitions gated to the booker or the field owner,
// and the two list projections. Creation and status changes run inside a
// transaction spanning bookings and field_slots so the availability flag
// can never drift from the bookings that claimed it.
type BookingHandler struct {
	Users    *repository.UserRepo
	Slots    *repository.SlotRepo
	Teams    *repository.TeamRepo
	Bookings *repository.BookingRepo
	AMQPURL  string // empty disables event publishing
}

func NewBookingHandler(users *repository.UserRepo, slots *repository.SlotRepo, teams *repository.TeamRepo, bookings *repository.BookingRepo, amqpURL string) *BookingHandler {
	if users == nil || slots == nil || teams == nil || bookings == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Users: users, Slots: slots, Teams: teams, Bookings: bookings, AMQPURL: amqpURL}
}

type createBookingReq struct {
	SlotID uint64  `json:"slot_id"`
	TeamID *uint64 `json:"team_id"`
	Notes  *string `json:"notes"`
}

// CreateBooking handles POST /v1/bookings.
//
// The sequence inside one transaction: resolve the slot, verify team
// standing when a team is attached, claim the slot with a conditional
// update, insert the booking with the price snapshotted from the slot.
// Two concurrent requests for the same slot can both see it available, but
// only one conditional update affects a row; the loser gets 409.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_id is required"})
	}

	ctx := c.Request().Context()
	ok, err := h.Users.Exists(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	slot, err := h.Slots.GetTx(ctx, tx, req.SlotID)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load slot failed"})
	}
	if !slot.IsAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot not available"})
	}

	if req.TeamID != nil {
		allowed, err := h.Teams.IsCaptainOrMemberTx(ctx, tx, *req.TeamID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrTeamNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load team failed"})
		}
		if !allowed {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not a team member"})
		}
	}

	if err := h.Slots.ClaimTx(ctx, tx, slot.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot not available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "claim slot failed"})
	}

	b := &repository.Booking{
		SlotID:     slot.ID,
		UserID:     userID,
		TeamID:     req.TeamID,
		TotalPrice: slot.Price, // snapshot; later slot price changes never touch it
		Notes:      req.Notes,
	}
	if err := h.Bookings.CreateTx(ctx, tx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{"item": b})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateBookingStatus handles PATCH /v1/bookings/:id/status. Allowed only
// to the booking's creator or the owner of the slot's field. Any status
// may follow any other; moving into CANCELLED releases the slot and moving
// out of CANCELLED re-claims it (409 when someone else booked it since).
func (h *BookingHandler) UpdateBookingStatus(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !repository.ValidBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be PENDING, CONFIRMED or CANCELLED"})
	}

	ctx := c.Request().Context()
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, fieldOwnerID, err := h.Bookings.GetAuthInfoTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if callerID != b.UserID && callerID != fieldOwnerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	switch {
	case status == repository.BookingCancelled && b.Status != repository.BookingCancelled:
		if err := h.Slots.ReleaseTx(ctx, tx, b.SlotID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release slot failed"})
		}
	case status != repository.BookingCancelled && b.Status == repository.BookingCancelled:
		if err := h.Slots.ClaimTx(ctx, tx, b.SlotID); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "slot not available"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "claim slot failed"})
		}
	}

	if err := h.Bookings.UpdateStatusTx(ctx, tx, bookingID, status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	detail, err := h.Bookings.GetDetail(ctx, bookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if status == repository.BookingConfirmed {
		h.publishConfirmed(detail)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// publishConfirmed emits the booking.confirmed event in the background so
// broker trouble never fails the request.
func (h *BookingHandler) publishConfirmed(d *repository.BookingDetail) {
	if h.AMQPURL == "" {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   d.ID,
		UserID:      d.UserID,
		SlotID:      d.SlotID,
		FieldID:     d.FieldID,
		FieldName:   d.FieldName,
		TeamID:      d.TeamID,
		StartsAt:    d.StartTime.UTC().Format(time.RFC3339),
		EndsAt:      d.EndTime.UTC().Format(time.RFC3339),
		TotalPrice:  d.TotalPrice,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingConfirmed(ctx, h.AMQPURL, ev)
	}()
}

// ListMyBookings handles GET /v1/my-bookings.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListOwnerBookings handles GET /v1/owner/bookings: every booking placed
// on the caller's fields, resolved through the slot -> field join chain.
func (h *BookingHandler) ListOwnerBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByFieldOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
