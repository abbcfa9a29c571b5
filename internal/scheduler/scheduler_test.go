package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"nhlstats/ingestion/internal/pipeline"
	"nhlstats/ingestion/internal/runlock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	dates []time.Time
	err   error
}

func (f *fakeFetcher) FetchDate(_ context.Context, date time.Time) (*pipeline.DailyResult, error) {
	f.dates = append(f.dates, date)
	return &pipeline.DailyResult{Date: date}, f.err
}

func TestYesterday(t *testing.T) {
	s := NewScheduler("0 10 * * *", &fakeFetcher{})

	// 21:30 in Toronto on Jan 13 is already Jan 14 in UTC
	loc := time.FixedZone("EST", -5*3600)
	s.now = func() time.Time { return time.Date(2021, 1, 13, 21, 30, 0, 0, loc) }

	assert.Equal(t, time.Date(2021, 1, 13, 0, 0, 0, 0, time.UTC), s.Yesterday())
}

func TestRunDaily(t *testing.T) {
	f := &fakeFetcher{}
	s := NewScheduler("0 10 * * *", f)
	s.now = func() time.Time { return time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, s.RunDaily(context.Background()))
	require.Len(t, f.dates, 1)
	assert.Equal(t, time.Date(2021, 2, 28, 0, 0, 0, 0, time.UTC), f.dates[0])
}

func TestRunDaily_LockHeldIsSkipped(t *testing.T) {
	f := &fakeFetcher{err: fmt.Errorf("fetch 2021-02-28: %w", runlock.ErrLockHeld)}
	s := NewScheduler("0 10 * * *", f)

	assert.NoError(t, s.RunDaily(context.Background()))
}

func TestRunDaily_Error(t *testing.T) {
	boom := errors.New("schedule unavailable")
	s := NewScheduler("0 10 * * *", &fakeFetcher{err: boom})

	assert.ErrorIs(t, s.RunDaily(context.Background()), boom)
}

func TestStart(t *testing.T) {
	s := NewScheduler("0 10 * * *", &fakeFetcher{})
	assert.True(t, s.Next().IsZero())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	next := s.Next()
	assert.Equal(t, 10, next.Hour())
	assert.Equal(t, time.UTC, next.Location())
}

func TestStart_InvalidSpec(t *testing.T) {
	s := NewScheduler("every morning", &fakeFetcher{})
	assert.Error(t, s.Start(context.Background()))
}
