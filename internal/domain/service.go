package domain

import "time"

// AddonService is a priced extra (projector, catering, cleaning crew)
// offered by the service catalog collaborator.
type AddonService struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Unit         string    `json:"unit,omitempty"`
	PricePerUnit float64   `json:"price_per_unit" validate:"required,gt=0"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BookingService is a line item on a booking. Name, unit and unit price
// are snapshots taken at booking time so later catalog edits never change
// a historical invoice.
type BookingService struct {
	ID          int64   `json:"id"`
	BookingID   int64   `json:"booking_id"`
	ServiceID   int64   `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Unit        string  `json:"unit,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}
