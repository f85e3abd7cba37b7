package notify

import (
	"log"

	"spacebook/internal/domain"

	"github.com/google/uuid"
)

// Sender delivers booking lifecycle notifications. Implementations must not
// block the caller for long and must never surface delivery failures as
// booking errors.
type Sender interface {
	BookingCreated(booking *domain.Booking, space *domain.Space)
	BookingConfirmed(booking *domain.Booking, space *domain.Space)
	BookingCancelled(booking *domain.Booking, space *domain.Space)
}

// LogSender writes notifications to the process log. Used when no email
// provider is configured, and in tests.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) BookingCreated(booking *domain.Booking, space *domain.Space) {
	s.logEvent("booking_created", booking, space)
}

func (s *LogSender) BookingConfirmed(booking *domain.Booking, space *domain.Space) {
	s.logEvent("booking_confirmed", booking, space)
}

func (s *LogSender) BookingCancelled(booking *domain.Booking, space *domain.Space) {
	s.logEvent("booking_cancelled", booking, space)
}

func (s *LogSender) logEvent(event string, booking *domain.Booking, space *domain.Space) {
	log.Printf("notify event_id=%s event=%s booking_code=%s space=%q email=%s",
		uuid.NewString(), event, booking.BookingCode, space.Name, booking.NotificationEmail)
}
