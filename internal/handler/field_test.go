package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/turf-match-finder/internal/repository"
	"github.com/appdotbuilder/turf-match-finder/internal/repository/repotest"
)

func TestCreateAndUpdateField(t *testing.T) {
	db := repotest.NewDB(t)
	e := echo.New()
	h := NewFieldHandler(repository.NewFieldRepo(db))
	owner := repotest.SeedUser(t, db, "owner@example.com", repository.RoleFieldOwner)
	other := repotest.SeedUser(t, db, "other@example.com", repository.RoleFieldOwner)

	c, rec := doJSON(t, e, http.MethodPost,
		map[string]any{"name": "North Pitch", "address": "1 Stadium Way", "hourly_rate": 80}, owner)
	require.NoError(t, h.CreateField(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var f repository.Field
	decodeItem(t, rec, &f)
	assert.Equal(t, owner, f.OwnerID)

	// partial update by the owner
	c, rec = doJSON(t, e, http.MethodPatch,
		map[string]any{"hourly_rate": 95.5}, owner, "id", itoa(f.ID))
	require.NoError(t, h.UpdateField(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated repository.Field
	decodeItem(t, rec, &updated)
	assert.Equal(t, 95.5, updated.HourlyRate)
	assert.Equal(t, "North Pitch", updated.Name)

	// foreign field
	c, rec = doJSON(t, e, http.MethodPatch,
		map[string]any{"name": "Hijacked"}, other, "id", itoa(f.ID))
	require.NoError(t, h.UpdateField(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateFieldValidation(t *testing.T) {
	db := repotest.NewDB(t)
	e := echo.New()
	h := NewFieldHandler(repository.NewFieldRepo(db))
	owner := repotest.SeedUser(t, db, "owner@example.com", repository.RoleFieldOwner)

	c, rec := doJSON(t, e, http.MethodPost,
		map[string]any{"name": "", "address": "x", "hourly_rate": 80}, owner)
	require.NoError(t, h.CreateField(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = doJSON(t, e, http.MethodPost,
		map[string]any{"name": "Pitch", "address": "x", "hourly_rate": 0}, owner)
	require.NoError(t, h.CreateField(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFields(t *testing.T) {
	db := repotest.NewDB(t)
	e := echo.New()
	h := NewFieldHandler(repository.NewFieldRepo(db))
	a := repotest.SeedUser(t, db, "a@example.com", repository.RoleFieldOwner)
	b := repotest.SeedUser(t, db, "b@example.com", repository.RoleFieldOwner)
	repotest.SeedField(t, db, a, "A1")
	repotest.SeedField(t, db, b, "B1")

	c, rec := doJSON(t, e, http.MethodGet, nil, 0)
	require.NoError(t, h.ListFields(c))
	var all []repository.Field
	decodeItems(t, rec, &all)
	assert.Len(t, all, 2)

	c, rec = doJSON(t, e, http.MethodGet, nil, a)
	require.NoError(t, h.ListMyFields(c))
	var mine []repository.Field
	decodeItems(t, rec, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "A1", mine[0].Name)
}

func TestCreateSlot(t *testing.T) {
	db := repotest.NewDB(t)
	e := echo.New()
	h := NewSlotHandler(repository.NewFieldRepo(db), repository.NewSlotRepo(db))
	owner := repotest.SeedUser(t, db, "owner@example.com", repository.RoleFieldOwner)
	other := repotest.SeedUser(t, db, "other@example.com", repository.RoleFieldOwner)
	fieldID := repotest.SeedField(t, db, owner, "North Pitch")

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	body := map[string]any{
		"start_time": start,
		"end_time":   start.Add(time.Hour),
		"price":      120,
	}

	// not the owner's field
	c, rec := doJSON(t, e, http.MethodPost, body, other, "id", itoa(fieldID))
	require.NoError(t, h.CreateSlot(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// unknown field
	c, rec = doJSON(t, e, http.MethodPost, body, owner, "id", "999")
	require.NoError(t, h.CreateSlot(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = doJSON(t, e, http.MethodPost, body, owner, "id", itoa(fieldID))
	require.NoError(t, h.CreateSlot(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var s repository.FieldSlot
	decodeItem(t, rec, &s)
	assert.True(t, s.IsAvailable)
	assert.Equal(t, 120.0, s.Price)
}

func TestCreateSlotValidation(t *testing.T) {
	db := repotest.NewDB(t)
	e := echo.New()
	h := NewSlotHandler(repository.NewFieldRepo(db), repository.NewSlotRepo(db))
	owner := repotest.SeedUser(t, db, "owner@example.com", repository.RoleFieldOwner)
	fieldID := repotest.SeedField(t, db, owner, "North Pitch")

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	// end before start
	c, rec := doJSON(t, e, http.MethodPost, map[string]any{
		"start_time": start, "end_time": start.Add(-time.Hour), "price": 120,
	}, owner, "id", itoa(fieldID))
	require.NoError(t, h.CreateSlot(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = doJSON(t, e, http.MethodPost, map[string]any{
		"start_time": start, "end_time": start.Add(time.Hour), "price": 0,
	}, owner, "id", itoa(fieldID))
	require.NoError(t, h.CreateSlot(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSlots(t *testing.T) {
	db := repotest.NewDB(t)
	e := echo.New()
	h := NewSlotHandler(repository.NewFieldRepo(db), repository.NewSlotRepo(db))
	owner := repotest.SeedUser(t, db, "owner@example.com", repository.RoleFieldOwner)
	fieldID := repotest.SeedField(t, db, owner, "North Pitch")
	open := repotest.SeedSlot(t, db, fieldID, "100.00", true)
	repotest.SeedSlot(t, db, fieldID, "100.00", false)

	c, rec := doJSON(t, e, http.MethodGet, nil, 0)
	require.NoError(t, h.ListAvailableSlots(c))
	var avail []repository.FieldSlot
	decodeItems(t, rec, &avail)
	require.Len(t, avail, 1)
	assert.Equal(t, open, avail[0].ID)

	c, rec = doJSON(t, e, http.MethodGet, nil, 0, "id", itoa(fieldID))
	require.NoError(t, h.ListFieldSlots(c))
	var all []repository.FieldSlot
	decodeItems(t, rec, &all)
	assert.Len(t, all, 2)

	c, rec = doJSON(t, e, http.MethodGet, nil, 0, "id", "999")
	require.NoError(t, h.ListFieldSlots(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
