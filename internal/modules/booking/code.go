package booking

import "crypto/rand"

const (
	bookingCodeLength = 8
	maxCodeAttempts   = 5
)

// codeAlphabet omits 0/O/1/I so codes read out loud unambiguously.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateBookingCode() (string, error) {
	buf := make([]byte, bookingCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
