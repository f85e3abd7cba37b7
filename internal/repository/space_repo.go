package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spacebook/internal/domain"

	"gorm.io/gorm"
)

type SpaceFilters struct {
	Keyword         string
	SpaceType       string
	MinCapacity     int
	MaxPricePerHour float64
	AmenityIDs      []int64
	ExcludeIDs      []int64
	OwnerID         int64
	Limit           int
	Offset          int
}

type SpaceRepository struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

type spaceRow struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	OwnerID     int64   `gorm:"column:owner_id;index"`
	Name        string  `gorm:"column:name"`
	Description *string `gorm:"column:description"`
	Address     *string `gorm:"column:address"`
	City        *string `gorm:"column:city"`
	SpaceType   string  `gorm:"column:space_type"`
	Capacity    int     `gorm:"column:capacity"`

	PricePerHour float64  `gorm:"column:price_per_hour"`
	PricePerDay  *float64 `gorm:"column:price_per_day"`

	OpenTime  *string `gorm:"column:open_time"`
	CloseTime *string `gorm:"column:close_time"`

	MinBookingDurationMinutes int `gorm:"column:min_booking_duration_minutes"`
	MaxBookingDurationMinutes int `gorm:"column:max_booking_duration_minutes"`
	CancellationNoticeHours   int `gorm:"column:cancellation_notice_hours"`
	CleaningDurationMinutes   int `gorm:"column:cleaning_duration_minutes"`
	BufferMinutes             int `gorm:"column:buffer_minutes"`

	Status    string     `gorm:"column:status"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at;index"`
}

func (spaceRow) TableName() string { return "spaces" }

type amenityRow struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;uniqueIndex"`
}

func (amenityRow) TableName() string { return "amenities" }

type spaceAmenityRow struct {
	SpaceID   int64 `gorm:"column:space_id;primaryKey"`
	AmenityID int64 `gorm:"column:amenity_id;primaryKey"`
}

func (spaceAmenityRow) TableName() string { return "space_amenities" }

func toDomainSpace(m spaceRow) *domain.Space {
	s := &domain.Space{
		ID:                        m.ID,
		OwnerID:                   m.OwnerID,
		Name:                      m.Name,
		SpaceType:                 domain.SpaceType(m.SpaceType),
		Capacity:                  m.Capacity,
		PricePerHour:              m.PricePerHour,
		PricePerDay:               m.PricePerDay,
		MinBookingDurationMinutes: m.MinBookingDurationMinutes,
		MaxBookingDurationMinutes: m.MaxBookingDurationMinutes,
		CancellationNoticeHours:   m.CancellationNoticeHours,
		CleaningDurationMinutes:   m.CleaningDurationMinutes,
		BufferMinutes:             m.BufferMinutes,
		Status:                    domain.SpaceStatus(m.Status),
		CreatedAt:                 m.CreatedAt,
		UpdatedAt:                 m.UpdatedAt,
		DeletedAt:                 m.DeletedAt,
	}
	if m.Description != nil {
		s.Description = *m.Description
	}
	if m.Address != nil {
		s.Address = *m.Address
	}
	if m.City != nil {
		s.City = *m.City
	}
	if m.OpenTime != nil {
		s.OpenTime = *m.OpenTime
	}
	if m.CloseTime != nil {
		s.CloseTime = *m.CloseTime
	}
	return s
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func toSpaceRow(s *domain.Space) spaceRow {
	return spaceRow{
		ID:                        s.ID,
		OwnerID:                   s.OwnerID,
		Name:                      s.Name,
		Description:               optString(s.Description),
		Address:                   optString(s.Address),
		City:                      optString(s.City),
		SpaceType:                 string(s.SpaceType),
		Capacity:                  s.Capacity,
		PricePerHour:              s.PricePerHour,
		PricePerDay:               s.PricePerDay,
		OpenTime:                  optString(s.OpenTime),
		CloseTime:                 optString(s.CloseTime),
		MinBookingDurationMinutes: s.MinBookingDurationMinutes,
		MaxBookingDurationMinutes: s.MaxBookingDurationMinutes,
		CancellationNoticeHours:   s.CancellationNoticeHours,
		CleaningDurationMinutes:   s.CleaningDurationMinutes,
		BufferMinutes:             s.BufferMinutes,
		Status:                    string(s.Status),
		CreatedAt:                 s.CreatedAt,
		UpdatedAt:                 s.UpdatedAt,
		DeletedAt:                 s.DeletedAt,
	}
}

func (r *SpaceRepository) Create(ctx context.Context, s *domain.Space) error {
	m := toSpaceRow(s)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		if err := replaceAmenityLinks(tx, m.ID, s.AmenityIDs()); err != nil {
			return err
		}
		*s = *toDomainSpace(m)
		return r.loadAmenities(tx, []*domain.Space{s})
	})
}

func (r *SpaceRepository) Update(ctx context.Context, s *domain.Space) error {
	m := toSpaceRow(s)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		if err := replaceAmenityLinks(tx, m.ID, s.AmenityIDs()); err != nil {
			return err
		}
		*s = *toDomainSpace(m)
		return r.loadAmenities(tx, []*domain.Space{s})
	})
}

func (r *SpaceRepository) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
	var m spaceRow
	tx := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	s := toDomainSpace(m)
	if err := r.loadAmenities(r.db.WithContext(ctx), []*domain.Space{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// SoftDelete marks the space deleted; historical bookings keep resolving.
func (r *SpaceRepository) SoftDelete(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&spaceRow{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", now).Error
}

// Search returns spaces matching the filters plus the unpaged total.
// Ordering is by (name, id) so pagination stays stable under writes.
func (r *SpaceRepository) Search(ctx context.Context, f SpaceFilters) ([]domain.Space, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&spaceRow{}).
		Where("deleted_at IS NULL")

	if f.Keyword != "" {
		kw := "%" + strings.ToLower(f.Keyword) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", kw, kw)
	}
	if f.SpaceType != "" {
		q = q.Where("space_type = ?", f.SpaceType)
	}
	if f.MinCapacity > 0 {
		q = q.Where("capacity >= ?", f.MinCapacity)
	}
	if f.MaxPricePerHour > 0 {
		q = q.Where("price_per_hour <= ?", f.MaxPricePerHour)
	}
	if f.OwnerID > 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if len(f.ExcludeIDs) > 0 {
		q = q.Where("id NOT IN ?", f.ExcludeIDs)
	}
	if len(f.AmenityIDs) > 0 {
		// Containment, not intersection: the space must carry every
		// requested amenity.
		q = q.Where(
			"(SELECT COUNT(DISTINCT sa.amenity_id) FROM space_amenities sa WHERE sa.space_id = spaces.id AND sa.amenity_id IN ?) = ?",
			f.AmenityIDs, len(f.AmenityIDs),
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []spaceRow
	err := q.
		Order("name, id").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	spaces := make([]domain.Space, 0, len(rows))
	ptrs := make([]*domain.Space, 0, len(rows))
	for _, m := range rows {
		spaces = append(spaces, *toDomainSpace(m))
	}
	for i := range spaces {
		ptrs = append(ptrs, &spaces[i])
	}
	if err := r.loadAmenities(r.db.WithContext(ctx), ptrs); err != nil {
		return nil, 0, err
	}
	return spaces, total, nil
}

// ListAmenities returns the full amenity catalog.
func (r *SpaceRepository) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	var rows []amenityRow
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Amenity, 0, len(rows))
	for _, a := range rows {
		out = append(out, domain.Amenity{ID: a.ID, Name: a.Name})
	}
	return out, nil
}

func (r *SpaceRepository) CreateAmenity(ctx context.Context, a *domain.Amenity) error {
	m := amenityRow{Name: a.Name}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	a.ID = m.ID
	return nil
}

func replaceAmenityLinks(tx *gorm.DB, spaceID int64, amenityIDs []int64) error {
	if err := tx.Where("space_id = ?", spaceID).Delete(&spaceAmenityRow{}).Error; err != nil {
		return err
	}
	for _, id := range amenityIDs {
		if err := tx.Create(&spaceAmenityRow{SpaceID: spaceID, AmenityID: id}).Error; err != nil {
			return fmt.Errorf("link amenity %d: %w", id, err)
		}
	}
	return nil
}

func (r *SpaceRepository) loadAmenities(tx *gorm.DB, spaces []*domain.Space) error {
	if len(spaces) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(spaces))
	for _, s := range spaces {
		ids = append(ids, s.ID)
	}

	var links []struct {
		SpaceID int64
		ID      int64
		Name    string
	}
	err := tx.
		Table("space_amenities").
		Select("space_amenities.space_id, amenities.id, amenities.name").
		Joins("JOIN amenities ON amenities.id = space_amenities.amenity_id").
		Where("space_amenities.space_id IN ?", ids).
		Order("amenities.name").
		Scan(&links).Error
	if err != nil {
		return err
	}

	byID := make(map[int64][]domain.Amenity, len(spaces))
	for _, l := range links {
		byID[l.SpaceID] = append(byID[l.SpaceID], domain.Amenity{ID: l.ID, Name: l.Name})
	}
	for _, s := range spaces {
		s.Amenities = byID[s.ID]
	}
	return nil
}
