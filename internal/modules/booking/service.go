package booking

import (
	"context"
	"errors"
	"time"

	"spacebook/internal/domain"
	"spacebook/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	bookings BookingRepository
	spaces   SpaceRepository
	catalog  ServiceCatalog
	notifs   NotificationSender
	calc     *Calculator
	now      Clock
}

func NewService(
	bookings BookingRepository,
	spaces SpaceRepository,
	catalog ServiceCatalog,
	notifs NotificationSender,
	calc *Calculator,
) *Service {
	return &Service{
		bookings: bookings,
		spaces:   spaces,
		catalog:  catalog,
		notifs:   notifs,
		calc:     calc,
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *Service) WithClock(c Clock) *Service {
	s.now = c
	return s
}

// CreateBooking validates the candidate against the space's constraints,
// snapshots service prices, prices the reservation, and commits it
// behind the repository's overlap check. actorUserID is 0 for guests.
func (s *Service) CreateBooking(ctx context.Context, actorUserID int64, req CreateBookingRequest) (*domain.Booking, error) {
	space, err := s.spaces.GetByID(ctx, req.SpaceID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !space.Bookable() {
		return nil, ErrNotFound
	}

	start := req.StartTime.UTC()
	end := req.EndTime.UTC()
	now := s.now().UTC()

	if !start.Before(end) || start.Before(now) {
		return nil, ErrValidation
	}

	durationMinutes := int(end.Sub(start) / time.Minute)
	if durationMinutes < space.MinBookingDurationMinutes || durationMinutes > space.MaxBookingDurationMinutes {
		return nil, ErrValidation
	}
	if req.NumberOfPeople < 1 || req.NumberOfPeople > space.Capacity {
		return nil, ErrValidation
	}
	if !withinOperatingWindow(space, start, end) {
		return nil, ErrValidation
	}

	requester := s.resolveRequester(actorUserID, req)
	if !requester.Valid() {
		return nil, ErrValidation
	}

	lines, err := s.snapshotServices(ctx, req.Services)
	if err != nil {
		return nil, err
	}
	total := s.calc.Compute(space, start, end, lines)

	b := &domain.Booking{
		SpaceID:           space.ID,
		Requester:         requester,
		StartTime:         start,
		EndTime:           end,
		BlockedUntil:      end.Add(space.BlackoutDuration()),
		NumberOfPeople:    req.NumberOfPeople,
		Status:            domain.BookingPending,
		TotalPrice:        total,
		Notes:             req.Notes,
		NotificationEmail: s.notificationEmail(requester, req),
		CreatedAt:         now,
		UpdatedAt:         now,
		Services:          lines,
	}
	if actorUserID > 0 {
		b.CreatedByUserID = &actorUserID
	}

	if err := s.commitWithFreshCode(ctx, b); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		s.notifs.BookingCreated(b, space)
	}
	return b, nil
}

// commitWithFreshCode regenerates the booking code on collision up to a
// fixed bound. An overlap aborts immediately; only code collisions are
// worth retrying.
func (s *Service) commitWithFreshCode(ctx context.Context, b *domain.Booking) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateBookingCode()
		if err != nil {
			return err
		}
		if taken, err := s.bookings.CodeExists(ctx, code); err != nil {
			return err
		} else if taken {
			continue
		}

		b.BookingCode = code
		err = s.bookings.CreateWithOverlapCheck(ctx, b)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repository.ErrOverlap):
			return ErrBookingConflict
		case errors.Is(err, repository.ErrDuplicateCode):
			continue
		default:
			return err
		}
	}
	return ErrTransientConflict
}

// Confirm moves a Pending booking to Confirmed. Space owner or admin only.
func (s *Service) Confirm(ctx context.Context, actorUserID int64, actorRole string, bookingID int64) (*domain.Booking, error) {
	b, space, err := s.loadBookingAndSpace(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isOwnerOrAdmin(space, actorUserID, actorRole) {
		return nil, ErrForbidden
	}

	b, err = s.transition(ctx, b, domain.BookingConfirmed, map[string]any{
		"updated_by_user_id": actorUserID,
	})
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		s.notifs.BookingConfirmed(b, space)
	}
	return b, nil
}

// CheckIn records arrival. Allowed from Confirmed and, for late
// arrivals, from Overdue.
func (s *Service) CheckIn(ctx context.Context, actorUserID int64, actorRole string, bookingID int64) (*domain.Booking, error) {
	b, space, err := s.loadBookingAndSpace(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canActOn(b, space, actorUserID, actorRole) {
		return nil, ErrForbidden
	}

	return s.transition(ctx, b, domain.BookingCheckedIn, map[string]any{
		"actual_check_in":    s.now().UTC(),
		"updated_by_user_id": actorUserID,
	})
}

// CheckOut completes the stay. Extra service lines consumed during the
// stay are priced at current catalog rates and added on top; the base
// reservation price never shrinks.
func (s *Service) CheckOut(ctx context.Context, actorUserID int64, actorRole string, bookingID int64, extra []ServiceLineRequest) (*domain.Booking, error) {
	b, space, err := s.loadBookingAndSpace(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canActOn(b, space, actorUserID, actorRole) {
		return nil, ErrForbidden
	}

	b, err = s.transition(ctx, b, domain.BookingCompleted, map[string]any{
		"actual_check_out":   s.now().UTC(),
		"updated_by_user_id": actorUserID,
	})
	if err != nil {
		return nil, err
	}

	if len(extra) > 0 {
		lines, err := s.snapshotServices(ctx, extra)
		if err != nil {
			return nil, err
		}
		newTotal := b.TotalPrice
		for _, l := range lines {
			newTotal += l.LineTotal
		}
		newTotal = round2(newTotal)
		if err := s.bookings.AppendServiceLines(ctx, b.ID, lines, newTotal); err != nil {
			return nil, err
		}
		return s.bookings.GetByID(ctx, b.ID)
	}
	return b, nil
}

// Cancel rejects the request once the space's cancellation notice
// window has been entered; equality with the window edge still passes.
func (s *Service) Cancel(ctx context.Context, actorUserID int64, actorRole string, bookingID int64, reason string) (*domain.Booking, error) {
	b, space, err := s.loadBookingAndSpace(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canActOn(b, space, actorUserID, actorRole) {
		return nil, ErrForbidden
	}
	if !b.Status.CanTransitionTo(domain.BookingCancelled) {
		return nil, ErrInvalidTransition
	}

	notice := time.Duration(space.CancellationNoticeHours) * time.Hour
	if b.StartTime.Before(s.now().UTC().Add(notice)) {
		return nil, ErrCancellationWindowPassed
	}

	b, err = s.transition(ctx, b, domain.BookingCancelled, map[string]any{
		"cancellation_reason": reason,
		"updated_by_user_id":  actorUserID,
	})
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		s.notifs.BookingCancelled(b, space)
	}
	return b, nil
}

// MarkNoShow closes out an Overdue booking. Space owner or admin only.
func (s *Service) MarkNoShow(ctx context.Context, actorUserID int64, actorRole string, bookingID int64) (*domain.Booking, error) {
	b, space, err := s.loadBookingAndSpace(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isOwnerOrAdmin(space, actorUserID, actorRole) {
		return nil, ErrForbidden
	}

	return s.transition(ctx, b, domain.BookingNoShow, map[string]any{
		"updated_by_user_id": actorUserID,
	})
}

// UpdateStatus dispatches a requested status change to the matching
// operation. Pending and Overdue are not reachable through the API.
func (s *Service) UpdateStatus(ctx context.Context, actorUserID int64, actorRole string, bookingID int64, req UpdateStatusRequest) (*domain.Booking, error) {
	switch domain.BookingStatus(req.NewStatus) {
	case domain.BookingConfirmed:
		return s.Confirm(ctx, actorUserID, actorRole, bookingID)
	case domain.BookingCheckedIn:
		return s.CheckIn(ctx, actorUserID, actorRole, bookingID)
	case domain.BookingCompleted:
		return s.CheckOut(ctx, actorUserID, actorRole, bookingID, req.Services)
	case domain.BookingCancelled:
		return s.Cancel(ctx, actorUserID, actorRole, bookingID, req.Reason)
	case domain.BookingNoShow:
		return s.MarkNoShow(ctx, actorUserID, actorRole, bookingID)
	case domain.BookingPending, domain.BookingOverdue:
		return nil, ErrInvalidTransition
	default:
		return nil, ErrValidation
	}
}

func (s *Service) GetBooking(ctx context.Context, actorUserID int64, actorRole string, bookingID int64) (*domain.Booking, error) {
	b, space, err := s.loadBookingAndSpace(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canActOn(b, space, actorUserID, actorRole) {
		return nil, ErrForbidden
	}
	return b, nil
}

// GetByCode looks a booking up by its human-facing code. The code is
// the bearer credential here, so no further authorization applies.
func (s *Service) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	b, err := s.bookings.GetByCode(ctx, code)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64, page, pageSize int) ([]domain.Booking, error) {
	page, size := normalizePaging(page, pageSize)
	return s.bookings.ListForUser(ctx, userID, size, (page-1)*size)
}

// ListForSpace returns a space's full ledger, for its owner.
func (s *Service) ListForSpace(ctx context.Context, actorUserID int64, actorRole string, spaceID int64) ([]domain.Booking, error) {
	space, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !isOwnerOrAdmin(space, actorUserID, actorRole) {
		return nil, ErrForbidden
	}
	return s.bookings.ListForSpace(ctx, spaceID)
}

// transition applies one state machine edge with an optimistic check:
// the update only lands if the row is still in the status we read.
func (s *Service) transition(ctx context.Context, b *domain.Booking, to domain.BookingStatus, extra map[string]any) (*domain.Booking, error) {
	if !b.Status.CanTransitionTo(to) {
		return nil, ErrInvalidTransition
	}
	ok, err := s.bookings.TransitionStatus(ctx, b.ID, b.Status, to, extra)
	if err != nil {
		return nil, err
	}
	if !ok {
		// someone else moved the row since we read it
		return nil, ErrInvalidTransition
	}
	return s.bookings.GetByID(ctx, b.ID)
}

// snapshotServices resolves requested add-ons against the catalog and
// freezes name, unit and unit price onto line items.
func (s *Service) snapshotServices(ctx context.Context, reqs []ServiceLineRequest) ([]domain.BookingService, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		if r.Quantity < 1 {
			return nil, ErrValidation
		}
		ids = append(ids, r.ServiceID)
	}

	addons, err := s.catalog.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.AddonService, len(addons))
	for _, a := range addons {
		byID[a.ID] = a
	}

	lines := make([]domain.BookingService, 0, len(reqs))
	for _, r := range reqs {
		a, ok := byID[r.ServiceID]
		if !ok {
			return nil, ErrValidation
		}
		lines = append(lines, domain.BookingService{
			ServiceID:   a.ID,
			ServiceName: a.Name,
			Unit:        a.Unit,
			Quantity:    r.Quantity,
			UnitPrice:   a.PricePerUnit,
			LineTotal:   round2(float64(r.Quantity) * a.PricePerUnit),
		})
	}
	return lines, nil
}

func (s *Service) resolveRequester(actorUserID int64, req CreateBookingRequest) domain.Requester {
	if actorUserID > 0 {
		return domain.RegisteredRequester(actorUserID)
	}
	return domain.GuestRequester(req.GuestName, req.GuestEmail, req.GuestPhone)
}

func (s *Service) notificationEmail(requester domain.Requester, req CreateBookingRequest) string {
	if req.NotificationEmail != "" {
		return req.NotificationEmail
	}
	if _, email, _, ok := requester.Guest(); ok {
		return email
	}
	return ""
}

func (s *Service) loadBookingAndSpace(ctx context.Context, bookingID int64) (*domain.Booking, *domain.Space, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	space, err := s.spaces.GetByID(ctx, b.SpaceID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	return b, space, nil
}

// withinOperatingWindow checks [start, end) against the space's daily
// open/close window. Windowed spaces cannot host bookings that cross
// midnight.
func withinOperatingWindow(space *domain.Space, start, end time.Time) bool {
	if space.OpenTime == "" || space.CloseTime == "" {
		return true
	}
	open, err := time.Parse("15:04", space.OpenTime)
	if err != nil {
		return false
	}
	close, err := time.Parse("15:04", space.CloseTime)
	if err != nil {
		return false
	}

	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return false
	}

	openMin := open.Hour()*60 + open.Minute()
	closeMin := close.Hour()*60 + close.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	return startMin >= openMin && endMin <= closeMin
}

func isOwnerOrAdmin(space *domain.Space, actorUserID int64, actorRole string) bool {
	return space.OwnerID == actorUserID || actorRole == string(domain.RoleAdmin)
}

// canActOn allows the booking's requester, the space owner, and admins.
func canActOn(b *domain.Booking, space *domain.Space, actorUserID int64, actorRole string) bool {
	if isOwnerOrAdmin(space, actorUserID, actorRole) {
		return true
	}
	return b.Requester.IsUser(actorUserID)
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
