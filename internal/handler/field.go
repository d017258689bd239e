package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/turf-match-finder/internal/repository"
)

// FieldHandler exposes the field directory: owners create and maintain
// their pitches, everyone can browse them.
type FieldHandler struct {
	Fields *repository.FieldRepo
}

func NewFieldHandler(fields *repository.FieldRepo) *FieldHandler {
	if fields == nil {
		panic("nil repository passed to NewFieldHandler")
	}
	return &FieldHandler{Fields: fields}
}

type createFieldReq struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Description *string `json:"description"`
	HourlyRate  float64 `json:"hourly_rate"`
}

// CreateField handles POST /v1/fields. The caller (a field owner, enforced
// by route middleware) becomes the owner of the new field.
func (h *FieldHandler) CreateField(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createFieldReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
	}
	if req.HourlyRate <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hourly_rate must be positive"})
	}

	f := &repository.Field{
		OwnerID:     ownerID,
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		HourlyRate:  req.HourlyRate,
	}
	if err := h.Fields.Create(c.Request().Context(), f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create field failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": f})
}

type updateFieldReq struct {
	Name        *string  `json:"name"`
	Address     *string  `json:"address"`
	Description *string  `json:"description"`
	HourlyRate  *float64 `json:"hourly_rate"`
}

// UpdateField handles PATCH /v1/fields/:id. Only the supplied attributes
// change; a field the caller does not own yields 403.
func (h *FieldHandler) UpdateField(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	fieldID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field id"})
	}
	var req updateFieldReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HourlyRate != nil && *req.HourlyRate <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hourly_rate must be positive"})
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
	}

	f, err := h.Fields.Update(c.Request().Context(), fieldID, ownerID, repository.FieldUpdate{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		HourlyRate:  req.HourlyRate,
	})
	if err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your field"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update field failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": f})
}

// ListFields handles GET /v1/fields: the public directory.
func (h *FieldHandler) ListFields(c echo.Context) error {
	fields, err := h.Fields.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load fields failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": fields})
}

// ListMyFields handles GET /v1/my-fields for field owners.
func (h *FieldHandler) ListMyFields(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	fields, err := h.Fields.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load fields failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": fields})
}
