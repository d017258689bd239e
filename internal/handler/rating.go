package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/turf-match-finder/internal/repository"
)

// RatingHandler records post-match team ratings and serves the aggregate.
type RatingHandler struct {
	Teams   *repository.TeamRepo
	Ratings *repository.RatingRepo
}

func NewRatingHandler(teams *repository.TeamRepo, ratings *repository.RatingRepo) *RatingHandler {
	if teams == nil || ratings == nil {
		panic("nil repository passed to NewRatingHandler")
	}
	return &RatingHandler{Teams: teams, Ratings: ratings}
}

type createRatingReq struct {
	Score   uint8   `json:"score"` // 1..5
	Comment *string `json:"comment"`
}

// RateTeam handles POST /v1/teams/:id/ratings. A captain rating their own
// team yields 409.
func (h *RatingHandler) RateTeam(c echo.Context) error {
	raterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}
	var req createRatingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Score < 1 || req.Score > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 1 and 5"})
	}

	ctx := c.Request().Context()
	t, err := h.Teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load team failed"})
	}
	if t.CaptainID == raterID {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot rate your own team"})
	}

	rt := &repository.TeamRating{
		TeamID:  teamID,
		RaterID: raterID,
		Score:   req.Score,
		Comment: req.Comment,
	}
	if err := h.Ratings.Create(ctx, rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create rating failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": rt})
}

// TeamRatingSummary handles GET /v1/teams/:id/ratings: average and count.
func (h *RatingHandler) TeamRatingSummary(c echo.Context) error {
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
	summary, err := h.Ratings.Summary(ctx, teamID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load ratings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": summary})
}
