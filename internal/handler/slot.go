package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/turf-match-finder/internal/repository"
)

// SlotHandler manages time slots on fields.
type SlotHandler struct {
	Fields *repository.FieldRepo
	Slots  *repository.SlotRepo
}

func NewSlotHandler(fields *repository.FieldRepo, slots *repository.SlotRepo) *SlotHandler {
	if fields == nil || slots == nil {
		panic("nil repository passed to NewSlotHandler")
	}
	return &SlotHandler{Fields: fields, Slots: slots}
}

type createSlotReq struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Price     float64   `json:"price"`
}

// CreateSlot handles POST /v1/fields/:id/slots. The field must exist and
// belong to the caller. Overlapping slots on the same field are allowed; a
// field may have several bookable units in parallel.
func (h *SlotHandler) CreateSlot(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	fieldID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field id"})
	}
	var req createSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.StartTime.Before(req.EndTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be before end_time"})
	}
	if req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be positive"})
	}

	ctx := c.Request().Context()
	f, err := h.Fields.GetByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load field failed"})
	}
	if f.OwnerID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your field"})
	}

	s := &repository.FieldSlot{
		FieldID:   fieldID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Price:     req.Price,
	}
	if err := h.Slots.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slot failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": s})
}

// ListAvailableSlots handles GET /v1/slots/available: every slot still
// open for booking across all fields.
func (h *SlotHandler) ListAvailableSlots(c echo.Context) error {
	slots, err := h.Slots.ListAvailable(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load slots failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": slots})
}

// ListFieldSlots handles GET /v1/fields/:id/slots: all slots of one
// field, booked or not.
func (h *SlotHandler) ListFieldSlots(c echo.Context) error {
	fieldID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Fields.GetByID(ctx, fieldID); err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load field failed"})
	}
	slots, err := h.Slots.ListByField(ctx, fieldID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load slots failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": slots})
}
