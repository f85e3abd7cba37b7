package booking

import (
	"math"
	"time"

	"spacebook/internal/domain"
)

const dayBlock = 24 * time.Hour

// Calculator turns a candidate reservation into a total price. Pure,
// no I/O; the only knob is the threshold at which the daily rate kicks
// in (the source material leaves it implicit, so it is a policy
// parameter here).
type Calculator struct {
	DailyRateThreshold time.Duration
}

func NewCalculator(dailyRateThreshold time.Duration) *Calculator {
	if dailyRateThreshold <= 0 {
		dailyRateThreshold = dayBlock
	}
	return &Calculator{DailyRateThreshold: dailyRateThreshold}
}

// Compute returns the reservation total: the base interval price plus
// every service line total, rounded to cents.
//
// Base pricing is hourly unless the interval reaches the daily-rate
// threshold and the space carries a daily rate, in which case whole
// 24h blocks are charged at pricePerDay and the remainder hourly.
func (c *Calculator) Compute(space *domain.Space, start, end time.Time, lines []domain.BookingService) float64 {
	duration := end.Sub(start)
	if duration <= 0 {
		return 0
	}

	var base float64
	if space.PricePerDay != nil && duration >= c.DailyRateThreshold {
		days := duration / dayBlock
		remainder := duration % dayBlock
		base = float64(days)*(*space.PricePerDay) + remainder.Hours()*space.PricePerHour
	} else {
		base = duration.Hours() * space.PricePerHour
	}

	total := base
	for _, l := range lines {
		total += l.LineTotal
	}
	if total < 0 {
		total = 0
	}
	return round2(total)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
