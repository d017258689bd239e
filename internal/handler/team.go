package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/turf-match-finder/internal/repository"
)

// TeamHandler exposes the team registry: creation, the captain-managed
// roster and the list views.
type TeamHandler struct {
	Users *repository.UserRepo
	Teams *repository.TeamRepo
}

func NewTeamHandler(users *repository.UserRepo, teams *repository.TeamRepo) *TeamHandler {
	if users == nil || teams == nil {
		panic("nil repository passed to NewTeamHandler")
	}
	return &TeamHandler{Users: users, Teams: teams}
}

type createTeamReq struct {
	Name        string  `json:"name"`
	SkillLevel  uint8   `json:"skill_level"`
	Description *string `json:"description"`
}

// CreateTeam handles POST /v1/teams. The caller becomes captain. The
// captain is recorded on the team row only, not as a member row.
func (h *TeamHandler) CreateTeam(c echo.Context) error {
	captainID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createTeamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.SkillLevel < 1 || req.SkillLevel > 10 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "skill_level must be between 1 and 10"})
	}

	t := &repository.Team{
		Name:        req.Name,
		CaptainID:   captainID,
		SkillLevel:  req.SkillLevel,
		Description: req.Description,
	}
	if err := h.Teams.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create team failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": t})
}

type memberReq struct {
	UserID uint64 `json:"user_id"`
}

// AddMember handles POST /v1/teams/:id/members. Captain only. The target
// user must exist; adding someone twice yields 409.
func (h *TeamHandler) AddMember(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}
	var req memberReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}

	ctx := c.Request().Context()
	t, err := h.Teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load team failed"})
	}
	if t.CaptainID != callerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the captain manages members"})
	}

	exists, err := h.Users.Exists(ctx, req.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if err := h.Teams.AddMember(ctx, teamID, req.UserID); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already a member"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add member failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"team_id": teamID, "user_id": req.UserID})
}

// RemoveMember handles DELETE /v1/teams/:id/members/:user_id. Captain
// only. The captain removing their own id is rejected with 400 since the
// captaincy lives on the team row, not in the roster.
func (h *TeamHandler) RemoveMember(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}
	memberID, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx := c.Request().Context()
	t, err := h.Teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load team failed"})
	}
	if t.CaptainID != callerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the captain manages members"})
	}

	if err := h.Teams.RemoveMember(ctx, teamID, memberID); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidOperation):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "captain cannot be removed from the roster"})
		case errors.Is(err, repository.ErrNotMember):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not a member"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove member failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMembers handles GET /v1/teams/:id/members.
func (h *TeamHandler) ListMembers(c echo.Context) error {
	teamID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load team failed"})
	}
	members, err := h.Teams.ListMembers(ctx, teamID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load members failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": members})
}

// ListTeams handles GET /v1/teams: the public directory.
func (h *TeamHandler) ListTeams(c echo.Context) error {
	teams, err := h.Teams.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load teams failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": teams})
}

// ListMyTeams handles GET /v1/my-teams: teams the caller captains plus
// teams the caller joined, each at most once.
func (h *TeamHandler) ListMyTeams(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	teams, err := h.Teams.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load teams failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": teams})
}
