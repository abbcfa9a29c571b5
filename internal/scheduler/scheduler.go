package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nhlstats/ingestion/internal/metrics"
	"nhlstats/ingestion/internal/pipeline"
	"nhlstats/ingestion/internal/runlock"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DailyFetcher runs the daily driver for one date
type DailyFetcher interface {
	FetchDate(ctx context.Context, date time.Time) (*pipeline.DailyResult, error)
}

// Scheduler runs the daily fetch of the previous (UTC) day on a cron
// schedule. A run that is still going when the next one fires is skipped.
type Scheduler struct {
	spec    string
	fetcher DailyFetcher
	cron    *cron.Cron
	now     func() time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(spec string, fetcher DailyFetcher) *Scheduler {
	return &Scheduler{
		spec:    spec,
		fetcher: fetcher,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		now: time.Now,
	}
}

// Start schedules the daily fetch and starts the cron runner
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.spec, func() {
		if err := s.RunDaily(ctx); err != nil {
			log.Error().Err(err).Msg("Daily fetch failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule daily fetch: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.spec).
		Time("next", s.Next()).
		Msg("Daily fetch scheduled")

	return nil
}

// Stop stops the scheduler and waits for a running fetch to return
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

// Next returns the next scheduled run, or the zero time before Start
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Yesterday returns the previous UTC calendar day at midnight
func (s *Scheduler) Yesterday() time.Time {
	y, m, d := s.now().UTC().AddDate(0, 0, -1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RunDaily fetches yesterday. A run that loses the lock to another
// process is counted as skipped, not failed.
func (s *Scheduler) RunDaily(ctx context.Context) error {
	date := s.Yesterday()
	log.Info().Str("date", date.Format(time.DateOnly)).Msg("Running daily fetch...")

	_, err := s.fetcher.FetchDate(ctx, date)
	if errors.Is(err, runlock.ErrLockHeld) {
		metrics.RecordSkippedRun()
		log.Warn().Str("date", date.Format(time.DateOnly)).Msg("Daily fetch already running elsewhere, skipped")
		return nil
	}
	return err
}
