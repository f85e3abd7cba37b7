package repository

import (
	"context"
	"time"

	"spacebook/internal/domain"

	"gorm.io/gorm"
)

// AddonServiceRepository is the boundary to the add-on service catalog.
// The booking ledger only ever reads current prices from it; snapshots on
// bookings belong to the ledger.
type AddonServiceRepository struct {
	db *gorm.DB
}

func NewAddonServiceRepository(db *gorm.DB) *AddonServiceRepository {
	return &AddonServiceRepository{db: db}
}

type addonServiceRow struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Unit         *string   `gorm:"column:unit"`
	PricePerUnit float64   `gorm:"column:price_per_unit"`
	IsActive     bool      `gorm:"column:is_active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (addonServiceRow) TableName() string { return "addon_services" }

func toDomainAddon(m addonServiceRow) domain.AddonService {
	s := domain.AddonService{
		ID:           m.ID,
		Name:         m.Name,
		PricePerUnit: m.PricePerUnit,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Unit != nil {
		s.Unit = *m.Unit
	}
	return s
}

func (r *AddonServiceRepository) Create(ctx context.Context, s *domain.AddonService) error {
	m := addonServiceRow{
		Name:         s.Name,
		Unit:         optString(s.Unit),
		PricePerUnit: s.PricePerUnit,
		IsActive:     s.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = toDomainAddon(m)
	return nil
}

func (r *AddonServiceRepository) Update(ctx context.Context, s *domain.AddonService) error {
	m := addonServiceRow{
		ID:           s.ID,
		Name:         s.Name,
		Unit:         optString(s.Unit),
		PricePerUnit: s.PricePerUnit,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	return r.db.WithContext(ctx).Save(&m).Error
}

// GetActiveByIDs resolves the requested services, skipping inactive ones.
func (r *AddonServiceRepository) GetActiveByIDs(ctx context.Context, ids []int64) ([]domain.AddonService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []addonServiceRow
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.AddonService, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainAddon(m))
	}
	return out, nil
}
