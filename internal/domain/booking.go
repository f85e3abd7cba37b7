package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCheckedIn BookingStatus = "checked_in"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingOverdue   BookingStatus = "overdue"
	BookingNoShow    BookingStatus = "no_show"
)

// bookingTransitions is the closed set of allowed status edges. Anything
// not listed here is an invalid transition.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCheckedIn, BookingCancelled, BookingOverdue},
	BookingOverdue:   {BookingCheckedIn, BookingNoShow},
	BookingCheckedIn: {BookingCompleted},
	BookingCancelled: {},
	BookingCompleted: {},
	BookingNoShow:    {},
}

// CanTransitionTo reports whether the edge s -> next is allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status accepts no further transitions.
func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

// Blocks reports whether a booking in this status occupies its interval
// for overlap purposes.
func (s BookingStatus) Blocks() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn:
		return true
	default:
		return false
	}
}

// BlockingStatuses is the status set consulted by every overlap check.
func BlockingStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingConfirmed, BookingCheckedIn}
}

type RequesterKind string

const (
	RequesterRegistered RequesterKind = "registered"
	RequesterGuest      RequesterKind = "guest"
)

// Requester identifies who made a booking: either a registered user or a
// guest with contact details, never both. The fields are unexported so the
// only way to build one is through the constructors, which keeps the
// mutual exclusivity structural.
type Requester struct {
	kind       RequesterKind
	userID     int64
	guestName  string
	guestEmail string
	guestPhone string
}

func RegisteredRequester(userID int64) Requester {
	return Requester{kind: RequesterRegistered, userID: userID}
}

func GuestRequester(name, email, phone string) Requester {
	return Requester{kind: RequesterGuest, guestName: name, guestEmail: email, guestPhone: phone}
}

func (r Requester) Kind() RequesterKind { return r.kind }

// UserID returns the registered user's id, ok=false for guests.
func (r Requester) UserID() (int64, bool) {
	return r.userID, r.kind == RequesterRegistered
}

// Guest returns the guest contact fields, ok=false for registered users.
func (r Requester) Guest() (name, email, phone string, ok bool) {
	if r.kind != RequesterGuest {
		return "", "", "", false
	}
	return r.guestName, r.guestEmail, r.guestPhone, true
}

func (r Requester) Valid() bool {
	switch r.kind {
	case RequesterRegistered:
		return r.userID > 0
	case RequesterGuest:
		return r.guestName != "" && r.guestEmail != ""
	default:
		return false
	}
}

// IsUser reports whether the requester is the given registered user.
func (r Requester) IsUser(userID int64) bool {
	id, ok := r.UserID()
	return ok && id == userID
}

type Booking struct {
	ID        int64     `json:"id"`
	SpaceID   int64     `json:"space_id"`
	Requester Requester `json:"-"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	// BlockedUntil is EndTime extended by the space's cleaning and buffer
	// minutes as they were when the booking was made. Stored, never
	// recomputed from the current catalog.
	BlockedUntil time.Time `json:"-"`

	NumberOfPeople int           `json:"number_of_people"`
	Status         BookingStatus `json:"status"`
	TotalPrice     float64       `json:"total_price"`
	BookingCode    string        `json:"booking_code"`

	Notes              string `json:"notes,omitempty"`
	NotificationEmail  string `json:"notification_email,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`

	ActualCheckIn  *time.Time `json:"actual_check_in,omitempty"`
	ActualCheckOut *time.Time `json:"actual_check_out,omitempty"`

	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	CreatedByUserID *int64    `json:"created_by_user_id,omitempty"`
	UpdatedByUserID *int64    `json:"updated_by_user_id,omitempty"`

	Services []BookingService `json:"services,omitempty"`
}

// Overlaps applies the half-open interval test [s1,e1) x [s2,e2) using
// the booking's stored blocked interval against a candidate's.
func (b *Booking) Overlaps(start, blockedEnd time.Time) bool {
	return b.StartTime.Before(blockedEnd) && start.Before(b.BlockedUntil)
}
