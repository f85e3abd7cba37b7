package booking

import (
	"testing"
	"time"

	"spacebook/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCalculator_HourlyOnly(t *testing.T) {
	calc := NewCalculator(24 * time.Hour)
	space := &domain.Space{PricePerHour: 10}

	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	assert.Equal(t, 20.0, calc.Compute(space, start, end, nil))
}

func TestCalculator_DailyRateKicksInAtThreshold(t *testing.T) {
	calc := NewCalculator(24 * time.Hour)
	daily := 100.0
	space := &domain.Space{PricePerHour: 10, PricePerDay: &daily}

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	// 23h stays hourly
	assert.Equal(t, 230.0, calc.Compute(space, start, start.Add(23*time.Hour), nil))

	// exactly 24h: one day block
	assert.Equal(t, 100.0, calc.Compute(space, start, start.Add(24*time.Hour), nil))

	// 26h: one day block plus two hourly
	assert.Equal(t, 120.0, calc.Compute(space, start, start.Add(26*time.Hour), nil))

	// 50h: two day blocks plus two hourly
	assert.Equal(t, 220.0, calc.Compute(space, start, start.Add(50*time.Hour), nil))
}

func TestCalculator_NoDailyRateStaysHourly(t *testing.T) {
	calc := NewCalculator(24 * time.Hour)
	space := &domain.Space{PricePerHour: 10}

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Hour)

	assert.Equal(t, 300.0, calc.Compute(space, start, end, nil))
}

func TestCalculator_AddsServiceLines(t *testing.T) {
	calc := NewCalculator(24 * time.Hour)
	space := &domain.Space{PricePerHour: 10}

	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	lines := []domain.BookingService{
		{Quantity: 2, UnitPrice: 15, LineTotal: 30},
		{Quantity: 1, UnitPrice: 7.5, LineTotal: 7.5},
	}

	assert.Equal(t, 57.5, calc.Compute(space, start, end, lines))
}

func TestCalculator_RoundsToCents(t *testing.T) {
	calc := NewCalculator(24 * time.Hour)
	space := &domain.Space{PricePerHour: 9.99}

	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(100 * time.Minute)

	// 9.99 * 100/60 = 16.65
	assert.Equal(t, 16.65, calc.Compute(space, start, end, nil))
}

func TestCalculator_Deterministic(t *testing.T) {
	calc := NewCalculator(24 * time.Hour)
	daily := 80.0
	space := &domain.Space{PricePerHour: 12.34, PricePerDay: &daily}

	start := time.Date(2026, 9, 10, 9, 30, 0, 0, time.UTC)
	end := start.Add(31 * time.Hour)
	lines := []domain.BookingService{{Quantity: 3, UnitPrice: 4.2, LineTotal: 12.6}}

	first := calc.Compute(space, start, end, lines)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, calc.Compute(space, start, end, lines))
	}
}
