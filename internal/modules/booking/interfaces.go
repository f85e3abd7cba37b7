package booking

import (
	"context"
	"time"

	"spacebook/internal/domain"
)

// BookingRepository defines the ledger's persistence operations.
type BookingRepository interface {
	CreateWithOverlapCheck(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	ListForSpace(ctx context.Context, spaceID int64) ([]domain.Booking, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus, extra map[string]any) (bool, error)
	AppendServiceLines(ctx context.Context, bookingID int64, lines []domain.BookingService, newTotal float64) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

// SpaceRepository is the slice of the catalog the ledger reads.
type SpaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
}

// ServiceCatalog supplies current add-on prices. The ledger snapshots
// them onto the booking; it never reads them back.
type ServiceCatalog interface {
	GetActiveByIDs(ctx context.Context, ids []int64) ([]domain.AddonService, error)
}

// NotificationSender receives lifecycle events, fire-and-forget.
type NotificationSender interface {
	BookingCreated(b *domain.Booking, s *domain.Space)
	BookingConfirmed(b *domain.Booking, s *domain.Space)
	BookingCancelled(b *domain.Booking, s *domain.Space)
}

// Clock lets tests pin the current time.
type Clock func() time.Time
