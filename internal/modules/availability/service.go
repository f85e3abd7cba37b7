package availability

import (
	"context"

	"spacebook/internal/domain"
	"spacebook/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service answers "which spaces are free for this window matching these
// filters". Read-only; results can go slightly stale under concurrent
// writes, the overlap check at booking time is the authority.
type Service struct {
	spaces   SpaceSearcher
	bookings BookingReader
}

func NewService(spaces SpaceSearcher, bookings BookingReader) *Service {
	return &Service{spaces: spaces, bookings: bookings}
}

func (s *Service) Search(ctx context.Context, req SearchRequest) ([]domain.Space, int64, int, int, error) {
	if (req.AvailabilityStart == nil) != (req.AvailabilityEnd == nil) {
		return nil, 0, 0, 0, ErrValidation
	}

	page, size := normalizePaging(req.Page, req.PageSize)

	filters := repository.SpaceFilters{
		Keyword:         req.Keyword,
		SpaceType:       req.SpaceType,
		MinCapacity:     req.MinCapacity,
		MaxPricePerHour: req.MaxPricePerHour,
		AmenityIDs:      req.AmenityIDs,
		Limit:           size,
		Offset:          (page - 1) * size,
	}

	if req.AvailabilityStart != nil {
		start := req.AvailabilityStart.UTC()
		end := req.AvailabilityEnd.UTC()
		if !start.Before(end) {
			return nil, 0, 0, 0, ErrValidation
		}
		blocked, err := s.bookings.BlockedSpaceIDs(ctx, start, end)
		if err != nil {
			return nil, 0, 0, 0, err
		}
		filters.ExcludeIDs = blocked
	}

	spaces, total, err := s.spaces.Search(ctx, filters)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return spaces, total, page, size, nil
}

func normalizePaging(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
