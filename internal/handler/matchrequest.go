package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/turf-match-finder/internal/repository"
)

// MatchRequestHandler runs the match-finding board.
type MatchRequestHandler struct {
	Teams    *repository.TeamRepo
	Requests *repository.MatchRequestRepo
}

func NewMatchRequestHandler(teams *repository.TeamRepo, requests *repository.MatchRequestRepo) *MatchRequestHandler {
	if teams == nil || requests == nil {
		panic("nil repository passed to NewMatchRequestHandler")
	}
	return &MatchRequestHandler{Teams: teams, Requests: requests}
}

type createMatchRequestReq struct {
	Kind          string     `json:"kind"` // FIND_OPPONENT | FIND_PLAYER
	TeamID        *uint64    `json:"team_id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	PreferredDate *time.Time `json:"preferred_date"`
}

// CreateMatchRequest handles POST /v1/match-requests. FIND_OPPONENT posts
// speak for a team and require the caller to be its captain; FIND_PLAYER
// posts are personal and must not carry a team.
func (h *MatchRequestHandler) CreateMatchRequest(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createMatchRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	kind := strings.ToUpper(strings.TrimSpace(req.Kind))
	if kind != repository.FindOpponent && kind != repository.FindPlayer {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be FIND_OPPONENT or FIND_PLAYER"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	ctx := c.Request().Context()
	switch kind {
	case repository.FindOpponent:
		if req.TeamID == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "team_id is required for FIND_OPPONENT"})
		}
		t, err := h.Teams.GetByID(ctx, *req.TeamID)
		if err != nil {
			if errors.Is(err, repository.ErrTeamNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load team failed"})
		}
		if t.CaptainID != userID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only the captain posts for a team"})
		}
	case repository.FindPlayer:
		if req.TeamID != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "team_id is not allowed for FIND_PLAYER"})
		}
	}

	m := &repository.MatchRequest{
		UserID:        userID,
		TeamID:        req.TeamID,
		Kind:          kind,
		Title:         req.Title,
		Description:   req.Description,
		PreferredDate: req.PreferredDate,
	}
	if err := h.Requests.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": m})
}

// ListOpenRequests handles GET /v1/match-requests: open posts, newest
// first.
func (h *MatchRequestHandler) ListOpenRequests(c echo.Context) error {
	items, err := h.Requests.ListOpen(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load requests failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CloseMatchRequest handles POST /v1/match-requests/:id/close. Poster
// only; closing twice is a no-op.
func (h *MatchRequestHandler) CloseMatchRequest(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	if err := h.Requests.Close(c.Request().Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrMatchRequestNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your request"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "close request failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
