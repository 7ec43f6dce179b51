package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

// SweepResult summarizes one sweep run. Err joins the per-task failures, or
// holds the listing error.
type SweepResult struct {
	Date     domain.Date
	Scanned  int
	Advanced int
	Failed   int
	Err      error
}

// OK reports whether every eligible task was advanced.
func (r SweepResult) OK() bool {
	return r.Err == nil && r.Failed == 0
}

// SweepService moves pending tasks whose start date is today to
// in_progress. Running it twice on the same day changes nothing the
// second time.
type SweepService struct {
	store  SweepStore
	policy domain.TransitionPolicy
	clock  *domain.Clock
	log    *slog.Logger
}

func NewSweepService(store SweepStore, policy domain.TransitionPolicy, clock *domain.Clock) *SweepService {
	if policy == nil {
		policy = domain.UnguardedPolicy{}
	}
	return &SweepService{
		store:  store,
		policy: policy,
		clock:  clock,
		log:    logger.With("component", "sweep"),
	}
}

// Run performs one sweep for the clock's current date. A failure on one
// task is logged and the remaining tasks are still processed.
func (s *SweepService) Run(ctx context.Context) SweepResult {
	return s.RunFor(ctx, s.clock.Today())
}

// RunFor sweeps as if today were day.
func (s *SweepService) RunFor(ctx context.Context, day domain.Date) SweepResult {
	res := SweepResult{Date: day}

	tasks, err := s.store.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		res.Err = fmt.Errorf("list pending tasks: %w", err)
		s.log.Error("sweep aborted", "date", day, "error", err)
		SweepRuns.WithLabelValues("error").Inc()
		return res
	}

	var errs []error
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		// A snapshot row may have been changed since listing; only the
		// start date and the pending status at listing time are checked.
		if t.Status != domain.StatusPending || !t.StartDate.Equal(day) {
			continue
		}
		res.Scanned++

		if err := s.policy.Allow(t.Status, domain.StatusInProgress); err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("task %d: %w", t.ID, err))
			continue
		}
		if _, err := s.store.UpdateStatus(ctx, t.ID, domain.StatusInProgress); err != nil {
			res.Failed++
			SweepFailures.Inc()
			errs = append(errs, fmt.Errorf("task %d: %w", t.ID, err))
			s.log.Error("sweep task failed", "task_id", t.ID, "error", err)
			continue
		}
		res.Advanced++
		SweepAdvanced.Inc()
		StatusTransitions.WithLabelValues(string(domain.StatusPending), string(domain.StatusInProgress), "sweep").Inc()
	}

	res.Err = errors.Join(errs...)
	outcome := "ok"
	if !res.OK() {
		outcome = "partial"
	}
	SweepRuns.WithLabelValues(outcome).Inc()
	s.log.Info("sweep finished",
		"date", day,
		"eligible", res.Scanned,
		"advanced", res.Advanced,
		"failed", res.Failed,
	)
	return res
}
