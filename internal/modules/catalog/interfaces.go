package catalog

import (
	"context"

	"spacebook/internal/domain"
	"spacebook/internal/repository"
)

// SpaceRepository defines the persistence operations the catalog needs.
// Both the plain gorm repository and its caching decorator satisfy it.
type SpaceRepository interface {
	Create(ctx context.Context, s *domain.Space) error
	Update(ctx context.Context, s *domain.Space) error
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
	SoftDelete(ctx context.Context, id int64) error
	Search(ctx context.Context, f repository.SpaceFilters) ([]domain.Space, int64, error)
	ListAmenities(ctx context.Context) ([]domain.Amenity, error)
	CreateAmenity(ctx context.Context, a *domain.Amenity) error
}
