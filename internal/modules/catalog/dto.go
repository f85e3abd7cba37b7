package catalog

// SpaceRequest carries the full space definition for create and update.
// Updates are whole-document, matching PUT semantics.
type SpaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	SpaceType   string `json:"space_type" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required"`

	PricePerHour float64  `json:"price_per_hour" binding:"required"`
	PricePerDay  *float64 `json:"price_per_day"`

	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`

	MinBookingDurationMinutes int `json:"min_booking_duration_minutes"`
	MaxBookingDurationMinutes int `json:"max_booking_duration_minutes"`
	CancellationNoticeHours   int `json:"cancellation_notice_hours"`
	CleaningDurationMinutes   int `json:"cleaning_duration_minutes"`
	BufferMinutes             int `json:"buffer_minutes"`

	Status     string  `json:"status"`
	AmenityIDs []int64 `json:"amenity_ids"`
}

type SearchSpacesRequest struct {
	Keyword         string  `form:"keyword"`
	SpaceType       string  `form:"space_type"`
	MinCapacity     int     `form:"min_capacity"`
	MaxPricePerHour float64 `form:"max_price_per_hour"`
	AmenityIDs      []int64 `form:"amenity_ids"`
	Page            int     `form:"page"`
	PageSize        int     `form:"page_size"`
}

type AmenityRequest struct {
	Name string `json:"name" binding:"required"`
}
