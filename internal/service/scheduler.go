package service

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

// DailyScheduler runs a job once a day at a fixed wall-clock time in the
// clock's zone. The next timer is armed only after the previous run
// returns, so runs never overlap.
type DailyScheduler struct {
	clock *domain.Clock
	at    time.Duration
	job   func(context.Context)
}

// NewDailyScheduler schedules job at the offset at past local midnight.
func NewDailyScheduler(clock *domain.Clock, at time.Duration, job func(context.Context)) *DailyScheduler {
	return &DailyScheduler{clock: clock, at: at, job: job}
}

// Next returns the first run time strictly after now.
func (s *DailyScheduler) Next(now time.Time) time.Time {
	loc := s.clock.Location()
	now = now.In(loc)
	h := int(s.at / time.Hour)
	m := int((s.at % time.Hour) / time.Minute)
	next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, loc)
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, h, m, 0, 0, loc)
	}
	return next
}

// Start blocks until ctx is cancelled.
func (s *DailyScheduler) Start(ctx context.Context) {
	for {
		now := s.clock.Now()
		next := s.Next(now)
		logger.Info("next sweep scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.job(ctx)
		}
	}
}
