package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRequestCreateAndListOpen(t *testing.T) {
	db := newTestDB(t)
	poster := seedUser(t, db, "p@example.com", RolePlayer)
	teamID := seedTeam(t, db, poster, "Rovers")
	repo := NewMatchRequestRepo(db)
	ctx := context.Background()

	date := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	m := &MatchRequest{
		UserID:        poster,
		TeamID:        &teamID,
		Kind:          FindOpponent,
		Title:         "Friendly on Saturday",
		PreferredDate: &date,
	}
	require.NoError(t, repo.Create(ctx, m))
	assert.NotZero(t, m.ID)
	assert.True(t, m.IsOpen)
	require.NotNil(t, m.TeamID)
	assert.Equal(t, teamID, *m.TeamID)

	solo := &MatchRequest{UserID: poster, Kind: FindPlayer, Title: "Keeper wanted"}
	require.NoError(t, repo.Create(ctx, solo))
	assert.Nil(t, solo.TeamID)

	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)
	// newest first
	assert.Equal(t, solo.ID, open[0].ID)
	assert.Equal(t, m.ID, open[1].ID)
}

func TestMatchRequestClose(t *testing.T) {
	db := newTestDB(t)
	poster := seedUser(t, db, "p@example.com", RolePlayer)
	other := seedUser(t, db, "o@example.com", RolePlayer)
	repo := NewMatchRequestRepo(db)
	ctx := context.Background()

	m := &MatchRequest{UserID: poster, Kind: FindPlayer, Title: "Keeper wanted"}
	require.NoError(t, repo.Create(ctx, m))

	assert.ErrorIs(t, repo.Close(ctx, m.ID, other), ErrForbidden)
	assert.ErrorIs(t, repo.Close(ctx, 999, poster), ErrMatchRequestNotFound)

	require.NoError(t, repo.Close(ctx, m.ID, poster))
	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	// closing again is a no-op
	require.NoError(t, repo.Close(ctx, m.ID, poster))
}
