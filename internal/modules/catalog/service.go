package catalog

import (
	"context"
	"errors"
	"time"

	"spacebook/internal/domain"
	"spacebook/internal/pkg/validator"
	"spacebook/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	spaces SpaceRepository
}

func NewService(spaces SpaceRepository) *Service {
	return &Service{spaces: spaces}
}

func (s *Service) CreateSpace(ctx context.Context, ownerID int64, req SpaceRequest) (*domain.Space, error) {
	space := spaceFromRequest(req)
	space.OwnerID = ownerID
	if space.Status == "" {
		space.Status = domain.SpaceAvailable
	}
	applyDurationDefaults(space)

	if err := validateSpace(space); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	space.CreatedAt = now
	space.UpdatedAt = now

	if err := s.spaces.Create(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *Service) UpdateSpace(ctx context.Context, actorID int64, actorRole string, id int64, req SpaceRequest) (*domain.Space, error) {
	existing, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !canManage(existing, actorID, actorRole) {
		return nil, ErrForbidden
	}

	space := spaceFromRequest(req)
	space.ID = existing.ID
	space.OwnerID = existing.OwnerID
	space.CreatedAt = existing.CreatedAt
	space.UpdatedAt = time.Now().UTC()
	if space.Status == "" {
		space.Status = existing.Status
	}
	applyDurationDefaults(space)

	if err := validateSpace(space); err != nil {
		return nil, err
	}
	if err := s.spaces.Update(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *Service) GetSpace(ctx context.Context, id int64) (*domain.Space, error) {
	space, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return space, nil
}

// DeleteSpace retires the space. Existing bookings keep their snapshots,
// new ones are refused because the space stops resolving.
func (s *Service) DeleteSpace(ctx context.Context, actorID int64, actorRole string, id int64) error {
	existing, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if !canManage(existing, actorID, actorRole) {
		return ErrForbidden
	}
	return s.spaces.SoftDelete(ctx, id)
}

func (s *Service) SearchSpaces(ctx context.Context, req SearchSpacesRequest) ([]domain.Space, int64, int, int, error) {
	page, size := normalizePaging(req.Page, req.PageSize)

	spaces, total, err := s.spaces.Search(ctx, repository.SpaceFilters{
		Keyword:         req.Keyword,
		SpaceType:       req.SpaceType,
		MinCapacity:     req.MinCapacity,
		MaxPricePerHour: req.MaxPricePerHour,
		AmenityIDs:      req.AmenityIDs,
		Limit:           size,
		Offset:          (page - 1) * size,
	})
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return spaces, total, page, size, nil
}

func (s *Service) ListOwned(ctx context.Context, ownerID int64, page, pageSize int) ([]domain.Space, int64, int, int, error) {
	page, size := normalizePaging(page, pageSize)

	spaces, total, err := s.spaces.Search(ctx, repository.SpaceFilters{
		OwnerID: ownerID,
		Limit:   size,
		Offset:  (page - 1) * size,
	})
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return spaces, total, page, size, nil
}

func (s *Service) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	return s.spaces.ListAmenities(ctx)
}

func (s *Service) CreateAmenity(ctx context.Context, req AmenityRequest) (*domain.Amenity, error) {
	if req.Name == "" {
		return nil, ErrValidation
	}
	a := &domain.Amenity{Name: req.Name}
	if err := s.spaces.CreateAmenity(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func spaceFromRequest(req SpaceRequest) *domain.Space {
	space := &domain.Space{
		Name:                      req.Name,
		Description:               req.Description,
		Address:                   req.Address,
		City:                      req.City,
		SpaceType:                 domain.SpaceType(req.SpaceType),
		Capacity:                  req.Capacity,
		PricePerHour:              req.PricePerHour,
		PricePerDay:               req.PricePerDay,
		OpenTime:                  req.OpenTime,
		CloseTime:                 req.CloseTime,
		MinBookingDurationMinutes: req.MinBookingDurationMinutes,
		MaxBookingDurationMinutes: req.MaxBookingDurationMinutes,
		CancellationNoticeHours:   req.CancellationNoticeHours,
		CleaningDurationMinutes:   req.CleaningDurationMinutes,
		BufferMinutes:             req.BufferMinutes,
		Status:                    domain.SpaceStatus(req.Status),
	}
	for _, id := range req.AmenityIDs {
		space.Amenities = append(space.Amenities, domain.Amenity{ID: id})
	}
	return space
}

func applyDurationDefaults(s *domain.Space) {
	if s.MinBookingDurationMinutes == 0 {
		s.MinBookingDurationMinutes = 30
	}
	if s.MaxBookingDurationMinutes == 0 {
		s.MaxBookingDurationMinutes = domain.MaxBookingDurationLimit
	}
}

func validateSpace(s *domain.Space) error {
	if errs := validator.Validate(s); errs != nil {
		return ErrValidation
	}
	if s.PricePerDay != nil && *s.PricePerDay <= 0 {
		return ErrValidation
	}
	switch s.SpaceType {
	case domain.SpaceMeetingRoom, domain.SpaceEventHall, domain.SpaceStudio, domain.SpaceCoworking:
	default:
		return ErrValidation
	}
	switch s.Status {
	case domain.SpaceAvailable, domain.SpaceMaintenance, domain.SpaceClosed:
	default:
		return ErrValidation
	}

	if s.MinBookingDurationMinutes < 1 ||
		s.MaxBookingDurationMinutes < s.MinBookingDurationMinutes ||
		s.MaxBookingDurationMinutes > domain.MaxBookingDurationLimit {
		return ErrValidation
	}
	if s.CancellationNoticeHours < 0 || s.CleaningDurationMinutes < 0 || s.BufferMinutes < 0 {
		return ErrValidation
	}

	// operating window: both ends or neither, open strictly before close
	if (s.OpenTime == "") != (s.CloseTime == "") {
		return ErrValidation
	}
	if s.OpenTime != "" {
		open, err := time.Parse("15:04", s.OpenTime)
		if err != nil {
			return ErrValidation
		}
		close, err := time.Parse("15:04", s.CloseTime)
		if err != nil {
			return ErrValidation
		}
		if !open.Before(close) {
			return ErrValidation
		}
	}
	return nil
}

func canManage(space *domain.Space, actorID int64, actorRole string) bool {
	return space.OwnerID == actorID || actorRole == string(domain.RoleAdmin)
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

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
