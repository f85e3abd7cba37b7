package repository

import (
	"context"
	"fmt"
	"time"

	"spacebook/internal/domain"

	gocache "github.com/patrickmn/go-cache"
)

// CachedSpaceRepository wraps SpaceRepository with a per-id cache for
// GetByID. Contract: every write through this type invalidates the
// entry, so readers never see a mutation older than the TTL.
type CachedSpaceRepository struct {
	inner *SpaceRepository
	cache *gocache.Cache
}

func NewCachedSpaceRepository(inner *SpaceRepository, ttl time.Duration) *CachedSpaceRepository {
	return &CachedSpaceRepository{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func spaceKey(id int64) string { return fmt.Sprintf("space:%d", id) }

func (r *CachedSpaceRepository) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
	if v, found := r.cache.Get(spaceKey(id)); found {
		s := v.(domain.Space)
		return &s, nil
	}
	s, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(spaceKey(id), *s)
	return s, nil
}

func (r *CachedSpaceRepository) Create(ctx context.Context, s *domain.Space) error {
	return r.inner.Create(ctx, s)
}

func (r *CachedSpaceRepository) Update(ctx context.Context, s *domain.Space) error {
	if err := r.inner.Update(ctx, s); err != nil {
		return err
	}
	r.cache.Delete(spaceKey(s.ID))
	return nil
}

func (r *CachedSpaceRepository) SoftDelete(ctx context.Context, id int64) error {
	if err := r.inner.SoftDelete(ctx, id); err != nil {
		return err
	}
	r.cache.Delete(spaceKey(id))
	return nil
}

func (r *CachedSpaceRepository) Search(ctx context.Context, f SpaceFilters) ([]domain.Space, int64, error) {
	return r.inner.Search(ctx, f)
}

func (r *CachedSpaceRepository) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	return r.inner.ListAmenities(ctx)
}

func (r *CachedSpaceRepository) CreateAmenity(ctx context.Context, a *domain.Amenity) error {
	return r.inner.CreateAmenity(ctx, a)
}
