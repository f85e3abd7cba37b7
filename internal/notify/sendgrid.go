package notify

import (
	"fmt"
	"log"

	"spacebook/internal/domain"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender sends booking emails through SendGrid. Every method is
// fire-and-forget: delivery runs in its own goroutine and failures only
// get logged.
type SendGridSender struct {
	apiKey string
	from   *mail.Email
}

func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{
		apiKey: apiKey,
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (s *SendGridSender) BookingCreated(booking *domain.Booking, space *domain.Space) {
	subject := fmt.Sprintf("Booking %s received", booking.BookingCode)
	body := fmt.Sprintf(
		"Your booking for %s from %s to %s has been received and is awaiting confirmation.\nBooking code: %s\nTotal: %.2f",
		space.Name,
		booking.StartTime.Format("2006-01-02 15:04 MST"),
		booking.EndTime.Format("2006-01-02 15:04 MST"),
		booking.BookingCode,
		booking.TotalPrice,
	)
	s.dispatch("booking_created", booking, subject, body)
}

func (s *SendGridSender) BookingConfirmed(booking *domain.Booking, space *domain.Space) {
	subject := fmt.Sprintf("Booking %s confirmed", booking.BookingCode)
	body := fmt.Sprintf(
		"Your booking for %s on %s is confirmed. See you there!\nBooking code: %s",
		space.Name,
		booking.StartTime.Format("2006-01-02 15:04 MST"),
		booking.BookingCode,
	)
	s.dispatch("booking_confirmed", booking, subject, body)
}

func (s *SendGridSender) BookingCancelled(booking *domain.Booking, space *domain.Space) {
	subject := fmt.Sprintf("Booking %s cancelled", booking.BookingCode)
	body := fmt.Sprintf(
		"Your booking for %s on %s has been cancelled.\nBooking code: %s",
		space.Name,
		booking.StartTime.Format("2006-01-02 15:04 MST"),
		booking.BookingCode,
	)
	s.dispatch("booking_cancelled", booking, subject, body)
}

func (s *SendGridSender) dispatch(event string, booking *domain.Booking, subject, body string) {
	if booking.NotificationEmail == "" {
		return
	}

	eventID := uuid.NewString()
	toEmail := booking.NotificationEmail
	toName := recipientName(booking)

	go func() {
		to := mail.NewEmail(toName, toEmail)
		message := mail.NewSingleEmail(s.from, subject, to, body, "")
		client := sendgrid.NewSendClient(s.apiKey)

		resp, err := client.Send(message)
		if err != nil {
			log.Printf("notify event_id=%s event=%s to=%s error=%v", eventID, event, toEmail, err)
			return
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.Printf("notify event_id=%s event=%s to=%s status=%d body=%s",
				eventID, event, toEmail, resp.StatusCode, resp.Body)
			return
		}
		log.Printf("notify event_id=%s event=%s to=%s status=%d", eventID, event, toEmail, resp.StatusCode)
	}()
}

func recipientName(booking *domain.Booking) string {
	if name, _, _, ok := booking.Requester.Guest(); ok && name != "" {
		return name
	}
	return "Guest"
}
