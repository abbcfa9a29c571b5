package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nhlstats/ingestion/internal/metrics"

	"github.com/rs/zerolog/log"
)

// LockName is the run lock held while fetching a date
func LockName(date time.Time) string {
	return "fetch:" + date.Format(time.DateOnly)
}

// FetchDate runs the daily driver for one date: the games of the date,
// then every game stage over all pending games. Documents of the date's
// games are prefetched into the run's cache first. A date without games
// stops after the schedule.
func (r *Runner) FetchDate(ctx context.Context, date time.Time) (*DailyResult, error) {
	start := time.Now()
	result := &DailyResult{Date: date}

	run := func() error {
		src := r.newSource()

		games, pks, err := r.games(ctx, src, date)
		result.Batches = append(result.Batches, games)
		if err != nil {
			return err
		}
		if len(pks) == 0 {
			log.Info().Str("date", date.Format(time.DateOnly)).Msg("No games scheduled")
			return nil
		}

		result.Prewarmed = src.Prewarm(ctx, pks, r.opts.PrefetchLimit)
		log.Debug().Int("games", len(pks)).Int("documents", result.Prewarmed).Msg("Prefetched game documents")

		for _, st := range r.Stages() {
			batch, err := r.runStage(ctx, src, st, Pending())
			result.Batches = append(result.Batches, batch)
			if err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	if r.opts.Locker != nil {
		err = r.opts.Locker.WithLock(ctx, LockName(date), run)
	} else {
		err = run()
	}
	result.Duration = time.Since(start)

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case result.FailedItems() > 0:
		status = "partial"
	}
	metrics.RecordRun("daily", status, result.Duration.Seconds())

	if err != nil {
		return result, fmt.Errorf("fetch %s: %w", date.Format(time.DateOnly), err)
	}

	log.Info().
		Str("date", date.Format(time.DateOnly)).
		Int("failed", result.FailedItems()).
		Dur("duration", result.Duration).
		Msg(result.Summary())
	return result, nil
}

// FetchRange runs FetchDate for every date from start to end inclusive.
// A failed date does not stop the range; the errors are joined.
func (r *Runner) FetchRange(ctx context.Context, start, end time.Time) ([]*DailyResult, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s is before start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	var (
		results []*DailyResult
		errs    []error
	)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := r.FetchDate(ctx, d)
		results = append(results, res)
		if err != nil {
			log.Error().Err(err).Str("date", d.Format(time.DateOnly)).Msg("Daily fetch failed")
			errs = append(errs, err)
		}
	}
	return results, errors.Join(errs...)
}

// Reset deletes every game of an api date together with its dependent rows
func (r *Runner) Reset(ctx context.Context, date time.Time) (int, error) {
	n, err := r.stores.Games.DeleteByAPIDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to reset %s: %w", date.Format(time.DateOnly), err)
	}
	log.Info().Str("date", date.Format(time.DateOnly)).Int("games", n).Msg("Date reset")
	return n, nil
}
