package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"spacebook/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB

	// Per-space locks serialize the check-then-insert sequence so two
	// concurrent requests for the same space cannot both pass the
	// overlap check. On postgres an advisory lock covers other
	// processes as well.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db, locks: make(map[int64]*sync.Mutex)}
}

type bookingRow struct {
	ID      int64 `gorm:"column:id;primaryKey"`
	SpaceID int64 `gorm:"column:space_id;index"`

	RequesterUserID *int64  `gorm:"column:requester_user_id"`
	GuestName       *string `gorm:"column:guest_name"`
	GuestEmail      *string `gorm:"column:guest_email"`
	GuestPhone      *string `gorm:"column:guest_phone"`

	StartTime    time.Time `gorm:"column:start_time;index"`
	EndTime      time.Time `gorm:"column:end_time"`
	BlockedUntil time.Time `gorm:"column:blocked_until"`

	NumberOfPeople int     `gorm:"column:number_of_people"`
	Status         string  `gorm:"column:status;index"`
	TotalPrice     float64 `gorm:"column:total_price"`
	BookingCode    string  `gorm:"column:booking_code;uniqueIndex"`

	Notes              *string `gorm:"column:notes"`
	NotificationEmail  *string `gorm:"column:notification_email"`
	CancellationReason *string `gorm:"column:cancellation_reason"`

	ActualCheckIn  *time.Time `gorm:"column:actual_check_in"`
	ActualCheckOut *time.Time `gorm:"column:actual_check_out"`

	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
	CreatedByUserID *int64    `gorm:"column:created_by_user_id"`
	UpdatedByUserID *int64    `gorm:"column:updated_by_user_id"`
}

func (bookingRow) TableName() string { return "bookings" }

type bookingServiceRow struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	BookingID   int64   `gorm:"column:booking_id;index"`
	ServiceID   int64   `gorm:"column:service_id"`
	ServiceName string  `gorm:"column:service_name"`
	Unit        *string `gorm:"column:unit"`
	Quantity    int     `gorm:"column:quantity"`
	UnitPrice   float64 `gorm:"column:unit_price"`
	LineTotal   float64 `gorm:"column:line_total"`
}

func (bookingServiceRow) TableName() string { return "booking_services" }

func toDomainBooking(m bookingRow) *domain.Booking {
	b := &domain.Booking{
		ID:              m.ID,
		SpaceID:         m.SpaceID,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		BlockedUntil:    m.BlockedUntil,
		NumberOfPeople:  m.NumberOfPeople,
		Status:          domain.BookingStatus(m.Status),
		TotalPrice:      m.TotalPrice,
		BookingCode:     m.BookingCode,
		ActualCheckIn:   m.ActualCheckIn,
		ActualCheckOut:  m.ActualCheckOut,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		CreatedByUserID: m.CreatedByUserID,
		UpdatedByUserID: m.UpdatedByUserID,
	}
	if m.RequesterUserID != nil {
		b.Requester = domain.RegisteredRequester(*m.RequesterUserID)
	} else {
		var name, email, phone string
		if m.GuestName != nil {
			name = *m.GuestName
		}
		if m.GuestEmail != nil {
			email = *m.GuestEmail
		}
		if m.GuestPhone != nil {
			phone = *m.GuestPhone
		}
		b.Requester = domain.GuestRequester(name, email, phone)
	}
	if m.Notes != nil {
		b.Notes = *m.Notes
	}
	if m.NotificationEmail != nil {
		b.NotificationEmail = *m.NotificationEmail
	}
	if m.CancellationReason != nil {
		b.CancellationReason = *m.CancellationReason
	}
	return b
}

func toBookingRow(b *domain.Booking) bookingRow {
	m := bookingRow{
		ID:                 b.ID,
		SpaceID:            b.SpaceID,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		BlockedUntil:       b.BlockedUntil,
		NumberOfPeople:     b.NumberOfPeople,
		Status:             string(b.Status),
		TotalPrice:         b.TotalPrice,
		BookingCode:        b.BookingCode,
		Notes:              optString(b.Notes),
		NotificationEmail:  optString(b.NotificationEmail),
		CancellationReason: optString(b.CancellationReason),
		ActualCheckIn:      b.ActualCheckIn,
		ActualCheckOut:     b.ActualCheckOut,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		CreatedByUserID:    b.CreatedByUserID,
		UpdatedByUserID:    b.UpdatedByUserID,
	}
	if id, ok := b.Requester.UserID(); ok {
		m.RequesterUserID = &id
	} else if name, email, phone, ok := b.Requester.Guest(); ok {
		m.GuestName = optString(name)
		m.GuestEmail = optString(email)
		m.GuestPhone = optString(phone)
	}
	return m
}

func toServiceRow(l domain.BookingService) bookingServiceRow {
	return bookingServiceRow{
		BookingID:   l.BookingID,
		ServiceID:   l.ServiceID,
		ServiceName: l.ServiceName,
		Unit:        optString(l.Unit),
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		LineTotal:   l.LineTotal,
	}
}

func toDomainService(m bookingServiceRow) domain.BookingService {
	l := domain.BookingService{
		ID:          m.ID,
		BookingID:   m.BookingID,
		ServiceID:   m.ServiceID,
		ServiceName: m.ServiceName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
	}
	if m.Unit != nil {
		l.Unit = *m.Unit
	}
	return l
}

func (r *BookingRepository) spaceLock(spaceID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[spaceID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[spaceID] = l
	}
	return l
}

func blockingStatusStrings() []string {
	blocking := domain.BlockingStatuses()
	out := make([]string, 0, len(blocking))
	for _, s := range blocking {
		out = append(out, string(s))
	}
	return out
}

// CreateWithOverlapCheck runs the overlap test and the insert of the
// booking plus its line items as one unit. It returns ErrOverlap when a
// blocking booking's blocked interval intersects the candidate's, and
// ErrDuplicateCode when the booking code is taken; in both cases nothing
// is persisted.
func (r *BookingRepository) CreateWithOverlapCheck(ctx context.Context, b *domain.Booking) error {
	lock := r.spaceLock(b.SpaceID)
	lock.Lock()
	defer lock.Unlock()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", b.SpaceID).Error; err != nil {
				return err
			}
		}

		var cnt int64
		err := tx.Model(&bookingRow{}).
			Where("space_id = ? AND status IN ?", b.SpaceID, blockingStatusStrings()).
			Where("start_time < ? AND ? < blocked_until", b.BlockedUntil, b.StartTime).
			Count(&cnt).Error
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrOverlap
		}

		m := toBookingRow(b)
		if err := tx.Create(&m).Error; err != nil {
			return mapPgError(err)
		}

		lines := make([]domain.BookingService, 0, len(b.Services))
		for _, l := range b.Services {
			row := toServiceRow(l)
			row.BookingID = m.ID
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			lines = append(lines, toDomainService(row))
		}

		*b = *toDomainBooking(m)
		b.Services = lines
		return nil
	})
	return err
}

// mapPgError translates postgres constraint violations into repository
// sentinels. 23505 is unique_violation, 23P01 exclusion_violation.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateCode
		case "23P01":
			return ErrOverlap
		}
	}
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingRow
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	b := toDomainBooking(m)
	if err := r.attachServices(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	var m bookingRow
	if err := r.db.WithContext(ctx).Where("booking_code = ?", code).First(&m).Error; err != nil {
		return nil, err
	}
	b := toDomainBooking(m)
	if err := r.attachServices(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BookingRepository) attachServices(ctx context.Context, b *domain.Booking) error {
	var rows []bookingServiceRow
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", b.ID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		b.Services = append(b.Services, toDomainService(row))
	}
	return nil
}

func (r *BookingRepository) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var rows []bookingRow
	err := r.db.WithContext(ctx).
		Where("requester_user_id = ?", userID).
		Order("start_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListForSpace(ctx context.Context, spaceID int64) ([]domain.Booking, error) {
	var rows []bookingRow
	err := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("start_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// BlockedSpaceIDs returns ids of spaces that have at least one blocking
// booking overlapping [start, end). Used by availability search to
// exclude occupied spaces.
func (r *BookingRepository) BlockedSpaceIDs(ctx context.Context, start, end time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&bookingRow{}).
		Distinct("space_id").
		Where("status IN ?", blockingStatusStrings()).
		Where("start_time < ? AND ? < blocked_until", end, start).
		Pluck("space_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// TransitionStatus performs a conditional status update: the row changes
// only if its status still equals from. Returns false when the row was
// already moved by someone else (or does not exist).
func (r *BookingRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	for k, v := range extra {
		updates[k] = v
	}
	tx := r.db.WithContext(ctx).
		Model(&bookingRow{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// AppendServiceLines adds checkout-time line items and bumps the total in
// one transaction. The base price is never reduced here.
func (r *BookingRepository) AppendServiceLines(ctx context.Context, bookingID int64, lines []domain.BookingService, newTotal float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, l := range lines {
			row := toServiceRow(l)
			row.BookingID = bookingID
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return tx.Model(&bookingRow{}).
			Where("id = ?", bookingID).
			Updates(map[string]any{
				"total_price": newTotal,
				"updated_at":  time.Now().UTC(),
			}).Error
	})
}

// OverdueCandidates lists Confirmed bookings whose start passed the grace
// cutoff with no check-in recorded.
func (r *BookingRepository) OverdueCandidates(ctx context.Context, startedBefore time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&bookingRow{}).
		Where("status = ? AND start_time < ? AND actual_check_in IS NULL",
			string(domain.BookingConfirmed), startedBefore).
		Pluck("id", &ids).Error
	return ids, err
}

// NoShowCandidates lists Overdue bookings past the longer no-show cutoff.
func (r *BookingRepository) NoShowCandidates(ctx context.Context, startedBefore time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&bookingRow{}).
		Where("status = ? AND start_time < ? AND actual_check_in IS NULL",
			string(domain.BookingOverdue), startedBefore).
		Pluck("id", &ids).Error
	return ids, err
}

// CodeExists reports whether a booking code is already taken.
func (r *BookingRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&bookingRow{}).
		Where("booking_code = ?", code).
		Count(&cnt).Error
	return cnt > 0, err
}
