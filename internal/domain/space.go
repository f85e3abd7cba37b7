package domain

import "time"

type SpaceStatus string

const (
	SpaceAvailable   SpaceStatus = "available"
	SpaceMaintenance SpaceStatus = "maintenance"
	SpaceClosed      SpaceStatus = "closed"
)

type SpaceType string

const (
	SpaceMeetingRoom SpaceType = "meeting_room"
	SpaceEventHall   SpaceType = "event_hall"
	SpaceStudio      SpaceType = "studio"
	SpaceCoworking   SpaceType = "coworking"
)

// MaxBookingDurationLimit is one week in minutes, the upper bound for
// a space's max_booking_duration_minutes.
const MaxBookingDurationLimit = 10080

type Amenity struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required"`
}

type Space struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	SpaceType   SpaceType `json:"space_type" validate:"required"`
	Capacity    int       `json:"capacity" validate:"required,gt=0"`

	PricePerHour float64  `json:"price_per_hour" validate:"required,gt=0"`
	PricePerDay  *float64 `json:"price_per_day,omitempty"`

	// Optional daily operating window, "15:04" in UTC. Both set or both empty.
	OpenTime  string `json:"open_time,omitempty"`
	CloseTime string `json:"close_time,omitempty"`

	MinBookingDurationMinutes int `json:"min_booking_duration_minutes"`
	MaxBookingDurationMinutes int `json:"max_booking_duration_minutes"`
	CancellationNoticeHours   int `json:"cancellation_notice_hours"`

	// Blackout appended after every booking, enforced during overlap
	// checks but not shown to the booker.
	CleaningDurationMinutes int `json:"cleaning_duration_minutes"`
	BufferMinutes           int `json:"buffer_minutes"`

	Status    SpaceStatus `json:"status"`
	Amenities []Amenity   `json:"amenities,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Bookable reports whether new bookings may be created on the space.
func (s *Space) Bookable() bool {
	return s.DeletedAt == nil && s.Status == SpaceAvailable
}

// BlackoutDuration is the time appended after a booking's end before
// the space can be reserved again.
func (s *Space) BlackoutDuration() time.Duration {
	return time.Duration(s.CleaningDurationMinutes+s.BufferMinutes) * time.Minute
}

// AmenityIDs returns the space's amenity id set.
func (s *Space) AmenityIDs() []int64 {
	ids := make([]int64, 0, len(s.Amenities))
	for _, a := range s.Amenities {
		ids = append(ids, a.ID)
	}
	return ids
}
