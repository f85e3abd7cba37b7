package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedSpaceRepository_InvalidateOnWrite(t *testing.T) {
	db := newTestDB(t)
	repo := NewCachedSpaceRepository(NewSpaceRepository(db), 5*time.Minute)
	ctx := context.Background()

	s := makeSpace("Loft 12", 7)
	require.NoError(t, repo.Create(ctx, s))

	// prime the cache
	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loft 12", got.Name)

	s.Name = "Loft 12 renamed"
	require.NoError(t, repo.Update(ctx, s))

	got, err = repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loft 12 renamed", got.Name, "update must invalidate the cached entry")
}

func TestCachedSpaceRepository_ServesCachedCopy(t *testing.T) {
	db := newTestDB(t)
	repo := NewCachedSpaceRepository(NewSpaceRepository(db), 5*time.Minute)
	ctx := context.Background()

	s := makeSpace("Loft 12", 7)
	require.NoError(t, repo.Create(ctx, s))

	first, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)

	// mutate behind the cache's back; the stale copy is expected until TTL
	require.NoError(t, db.Model(&spaceRow{}).Where("id = ?", s.ID).Update("name", "sneaky").Error)

	second, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)

	// callers get copies, not the cached pointer
	second.Name = "mutated by caller"
	third, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated by caller", third.Name)
}
