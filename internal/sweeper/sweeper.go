package sweeper

import (
	"context"
	"fmt"
	"log"
	"time"

	"spacebook/internal/domain"

	"github.com/robfig/cron/v3"
)

// BookingRepository is the slice of the ledger the sweeper drives.
type BookingRepository interface {
	OverdueCandidates(ctx context.Context, startedBefore time.Time) ([]int64, error)
	NoShowCandidates(ctx context.Context, startedBefore time.Time) ([]int64, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus, extra map[string]any) (bool, error)
}

// Sweeper periodically moves stale Confirmed bookings to Overdue and,
// after a longer grace, Overdue ones to NoShow. A singleton; the cron
// wrapper skips a tick if the previous one is still running.
type Sweeper struct {
	bookings BookingRepository

	interval     time.Duration
	overdueGrace time.Duration
	noShowAfter  time.Duration

	now  func() time.Time
	cron *cron.Cron
}

func New(bookings BookingRepository, interval, overdueGrace, noShowAfter time.Duration) *Sweeper {
	return &Sweeper{
		bookings:     bookings,
		interval:     interval,
		overdueGrace: overdueGrace,
		noShowAfter:  noShowAfter,
		now:          time.Now,
	}
}

// Start schedules the sweep and returns. Stop with Stop.
func (s *Sweeper) Start() error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	schedule := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.Sweep(context.Background()); err != nil {
			log.Printf("sweeper: sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("sweeper: running every %s (overdue after %s, no-show after %s)",
		s.interval, s.overdueGrace, s.noShowAfter)
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep runs one pass. Every row update is conditioned on the status
// still being what the candidate query saw, so a check-in that lands
// between read and write wins and the row is skipped.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := s.now().UTC()

	overdueIDs, err := s.bookings.OverdueCandidates(ctx, now.Add(-s.overdueGrace))
	if err != nil {
		return fmt.Errorf("sweeper: list overdue candidates: %w", err)
	}
	marked := 0
	for _, id := range overdueIDs {
		ok, err := s.bookings.TransitionStatus(ctx, id, domain.BookingConfirmed, domain.BookingOverdue, nil)
		if err != nil {
			return fmt.Errorf("sweeper: mark booking %d overdue: %w", id, err)
		}
		if ok {
			marked++
		}
	}
	if marked > 0 {
		log.Printf("sweeper: marked %d bookings overdue", marked)
	}

	noShowIDs, err := s.bookings.NoShowCandidates(ctx, now.Add(-s.noShowAfter))
	if err != nil {
		return fmt.Errorf("sweeper: list no-show candidates: %w", err)
	}
	closed := 0
	for _, id := range noShowIDs {
		ok, err := s.bookings.TransitionStatus(ctx, id, domain.BookingOverdue, domain.BookingNoShow, nil)
		if err != nil {
			return fmt.Errorf("sweeper: mark booking %d no-show: %w", id, err)
		}
		if ok {
			closed++
		}
	}
	if closed > 0 {
		log.Printf("sweeper: marked %d bookings no-show", closed)
	}
	return nil
}
