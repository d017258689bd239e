package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com", RoleFieldOwner)
	repo := NewFieldRepo(db)
	ctx := context.Background()

	desc := "5-a-side artificial turf"
	f := &Field{OwnerID: owner, Name: "North Pitch", Address: "1 Stadium Way", Description: &desc, HourlyRate: 80}
	require.NoError(t, repo.Create(ctx, f))
	assert.NotZero(t, f.ID)
	assert.False(t, f.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "North Pitch", got.Name)
	assert.Equal(t, 80.0, got.HourlyRate)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
}

func TestFieldGetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewFieldRepo(db)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestFieldUpdatePartial(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com", RoleFieldOwner)
	repo := NewFieldRepo(db)
	ctx := context.Background()

	f := &Field{OwnerID: owner, Name: "North Pitch", Address: "1 Stadium Way", HourlyRate: 80}
	require.NoError(t, repo.Create(ctx, f))

	rate := 95.5
	got, err := repo.Update(ctx, f.ID, owner, FieldUpdate{HourlyRate: &rate})
	require.NoError(t, err)
	assert.Equal(t, 95.5, got.HourlyRate)
	// untouched attributes survive
	assert.Equal(t, "North Pitch", got.Name)
	assert.Equal(t, "1 Stadium Way", got.Address)
}

func TestFieldUpdateOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com", RoleFieldOwner)
	other := seedUser(t, db, "other@example.com", RoleFieldOwner)
	repo := NewFieldRepo(db)
	ctx := context.Background()

	f := &Field{OwnerID: owner, Name: "North Pitch", Address: "1 Stadium Way", HourlyRate: 80}
	require.NoError(t, repo.Create(ctx, f))

	name := "Hijacked"
	_, err := repo.Update(ctx, f.ID, other, FieldUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	// missing field reads the same as a foreign one
	_, err = repo.Update(ctx, 9999, owner, FieldUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := repo.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "North Pitch", got.Name)
}

func TestFieldListByOwner(t *testing.T) {
	db := newTestDB(t)
	a := seedUser(t, db, "a@example.com", RoleFieldOwner)
	b := seedUser(t, db, "b@example.com", RoleFieldOwner)
	repo := NewFieldRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Field{OwnerID: a, Name: "A1", Address: "x", HourlyRate: 50}))
	require.NoError(t, repo.Create(ctx, &Field{OwnerID: a, Name: "A2", Address: "x", HourlyRate: 60}))
	require.NoError(t, repo.Create(ctx, &Field{OwnerID: b, Name: "B1", Address: "x", HourlyRate: 70}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.ListByOwner(ctx, a)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "A1", mine[0].Name)
	assert.Equal(t, "A2", mine[1].Name)
}
