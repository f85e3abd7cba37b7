package availability

import "time"

// SearchRequest combines catalog filters with an optional availability
// window. Both window ends must be present together.
type SearchRequest struct {
	Keyword         string  `form:"keyword"`
	SpaceType       string  `form:"space_type"`
	MinCapacity     int     `form:"min_capacity"`
	MaxPricePerHour float64 `form:"max_price_per_hour"`
	AmenityIDs      []int64 `form:"amenity_ids"`

	AvailabilityStart *time.Time `form:"availability_start" time_format:"2006-01-02T15:04:05Z07:00"`
	AvailabilityEnd   *time.Time `form:"availability_end" time_format:"2006-01-02T15:04:05Z07:00"`

	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}
