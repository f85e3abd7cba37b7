package availability

import (
	"context"
	"time"

	"spacebook/internal/domain"
	"spacebook/internal/repository"
)

// SpaceSearcher is the catalog read path the search composes over.
type SpaceSearcher interface {
	Search(ctx context.Context, f repository.SpaceFilters) ([]domain.Space, int64, error)
}

// BookingReader supplies the occupied-space set for a window.
type BookingReader interface {
	BlockedSpaceIDs(ctx context.Context, start, end time.Time) ([]int64, error)
}
