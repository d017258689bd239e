package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/turf-match-finder/internal/repository"
	"github.com/appdotbuilder/turf-match-finder/internal/repository/repotest"
)

func TestCreateMatchRequestFindOpponent(t *testing.T) {
	db := repotest.NewDB(t)
	e := echo.New()
	h := NewMatchRequestHandler(repository.NewTeamRepo(db), repository.NewMatchRequestRepo(db))
	captain := repotest.SeedUser(t, db, "cap@example.com", repository.RolePlayer)
	player := repotest.SeedUser(t, db, "p@example.com", repository.RolePlayer)
	teamID := repotest.SeedTeam(t, db, captain, "Rovers")

	// team is mandatory for FIND_OPPONENT
	c, rec := doJSON(t, e, http.MethodPost,
		map[string]any{"kind": "FIND_OPPONENT", "title": "Friendly"}, captain)
	require.NoError(t, h.CreateMatchRequest(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// only the captain posts for the team
	c, rec = doJSON(t, e, http.MethodPost,
		map[string]any{"kind": "FIND_OPPONENT", "title": "Friendly", "team_id": teamID}, player)
	require.NoError(t, h.CreateMatchRequest(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = doJSON(t, e, http.MethodPost,
		map[string]any{"kind": "FIND_OPPONENT", "title": "Friendly", "team_id": teamID}, captain)
	require.NoError(t, h.CreateMatchRequest(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var m repository.MatchRequest
	decodeItem(t, rec, &m)
	assert.True(t, m.IsOpen)
	assert.Equal(t, repository.FindOpponent, m.Kind)
}

func TestCreateMatchRequestFindPlayer(t *testing.T) {
	db := repotest.NewDB(t)
	e := echo.New()
	h := NewMatchRequestHandler(repository.NewTeamRepo(db), repository.NewMatchRequestRepo(db))
	player := repotest.SeedUser(t, db, "p@example.com", repository.RolePlayer)
	teamID := repotest.SeedTeam(t, db, player, "Rovers")

	// personal posts carry no team
	c, rec := doJSON(t, e, http.MethodPost,
		map[string]any{"kind": "FIND_PLAYER", "title": "Keeper wanted", "team_id": teamID}, player)
	require.NoError(t, h.CreateMatchRequest(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = doJSON(t, e, http.MethodPost,
		map[string]any{"kind": "find_player", "title": "Keeper wanted"}, player)
	require.NoError(t, h.CreateMatchRequest(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	c, rec = doJSON(t, e, http.MethodPost,
		map[string]any{"kind": "TRADE", "title": "nope"}, player)
	require.NoError(t, h.CreateMatchRequest(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloseMatchRequest(t *testing.T) {
	db := repotest.NewDB(t)
	e := echo.New()
	h := NewMatchRequestHandler(repository.NewTeamRepo(db), repository.NewMatchRequestRepo(db))
	poster := repotest.SeedUser(t, db, "p@example.com", repository.RolePlayer)
	other := repotest.SeedUser(t, db, "o@example.com", repository.RolePlayer)

	c, rec := doJSON(t, e, http.MethodPost,
		map[string]any{"kind": "FIND_PLAYER", "title": "Keeper wanted"}, poster)
	require.NoError(t, h.CreateMatchRequest(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var m repository.MatchRequest
	decodeItem(t, rec, &m)

	c, rec = doJSON(t, e, http.MethodPost, nil, other, "id", itoa(m.ID))
	require.NoError(t, h.CloseMatchRequest(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = doJSON(t, e, http.MethodPost, nil, poster, "id", itoa(m.ID))
	require.NoError(t, h.CloseMatchRequest(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = doJSON(t, e, http.MethodGet, nil, 0)
	require.NoError(t, h.ListOpenRequests(c))
	var open []repository.MatchRequest
	decodeItems(t, rec, &open)
	assert.Empty(t, open)
}

func TestRateTeam(t *testing.T) {
	db := repotest.NewDB(t)
	e := echo.New()
	h := NewRatingHandler(repository.NewTeamRepo(db), repository.NewRatingRepo(db))
	captain := repotest.SeedUser(t, db, "cap@example.com", repository.RolePlayer)
	rater := repotest.SeedUser(t, db, "r@example.com", repository.RolePlayer)
	teamID := repotest.SeedTeam(t, db, captain, "Rovers")

	// a captain cannot rate their own team
	c, rec := doJSON(t, e, http.MethodPost,
		map[string]any{"score": 5}, captain, "id", itoa(teamID))
	require.NoError(t, h.RateTeam(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	c, rec = doJSON(t, e, http.MethodPost,
		map[string]any{"score": 6}, rater, "id", itoa(teamID))
	require.NoError(t, h.RateTeam(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = doJSON(t, e, http.MethodPost,
		map[string]any{"score": 4, "comment": "solid defence"}, rater, "id", itoa(teamID))
	require.NoError(t, h.RateTeam(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	c, rec = doJSON(t, e, http.MethodGet, nil, 0, "id", itoa(teamID))
	require.NoError(t, h.TeamRatingSummary(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var s repository.RatingSummary
	decodeItem(t, rec, &s)
	assert.Equal(t, uint64(1), s.Count)
	assert.InDelta(t, 4.0, s.Average, 0.0001)

	c, rec = doJSON(t, e, http.MethodGet, nil, 0, "id", "999")
	require.NoError(t, h.TeamRatingSummary(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
