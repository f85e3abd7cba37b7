package booking

import "time"

type ServiceLineRequest struct {
	ServiceID int64 `json:"service_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

type CreateBookingRequest struct {
	SpaceID        int64     `json:"space_id" binding:"required"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	EndTime        time.Time `json:"end_time" binding:"required"`
	NumberOfPeople int       `json:"number_of_people" binding:"required"`

	Notes             string `json:"notes"`
	NotificationEmail string `json:"notification_email"`

	// Guest contact, used only when the request carries no token.
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`

	Services []ServiceLineRequest `json:"services"`
}

type UpdateStatusRequest struct {
	NewStatus string `json:"new_status" binding:"required"`
	Notes     string `json:"notes"`
	Reason    string `json:"reason"`

	// Extra add-on lines consumed during the stay, applied on check-out.
	Services []ServiceLineRequest `json:"services"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}
