package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the outcome of one item of a batch
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// ItemResult is the outcome of one game (or player) of a batch
type ItemResult struct {
	GamePk   int
	PlayerID int // set by the players batch instead of GamePk
	Status   Status
	Reason   string
}

// BatchResult collects the item results of one stage run
type BatchResult struct {
	Stage    string
	Items    []ItemResult
	Duration time.Duration
}

func (b *BatchResult) add(item ItemResult) {
	b.Items = append(b.Items, item)
}

// Counts returns the number of items per status
func (b *BatchResult) Counts() (ok, skipped, failed int) {
	for _, it := range b.Items {
		switch it.Status {
		case StatusOK:
			ok++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return ok, skipped, failed
}

// Failed returns the failed items
func (b *BatchResult) Failed() []ItemResult {
	var out []ItemResult
	for _, it := range b.Items {
		if it.Status == StatusFailed {
			out = append(out, it)
		}
	}
	return out
}

// Summary is a one line description of the batch
func (b *BatchResult) Summary() string {
	ok, skipped, failed := b.Counts()
	return fmt.Sprintf("%s: %d ok, %d skipped, %d failed in %s",
		b.Stage, ok, skipped, failed, b.Duration.Round(time.Millisecond))
}

// DailyResult collects the batches of one daily driver run
type DailyResult struct {
	Date      time.Time
	Prewarmed int
	Batches   []*BatchResult
	Duration  time.Duration
}

// FailedItems counts failed items over all batches
func (d *DailyResult) FailedItems() int {
	n := 0
	for _, b := range d.Batches {
		_, _, failed := b.Counts()
		n += failed
	}
	return n
}

// Summary lists the batch summaries of the run
func (d *DailyResult) Summary() string {
	parts := make([]string, 0, len(d.Batches))
	for _, b := range d.Batches {
		parts = append(parts, b.Summary())
	}
	return fmt.Sprintf("%s (%d prewarmed): %s", d.Date.Format(time.DateOnly), d.Prewarmed, strings.Join(parts, "; "))
}

// skipError marks a game that was deliberately not processed
type skipError struct {
	reason string
}

func (e *skipError) Error() string { return e.reason }

func skip(format string, args ...any) error {
	return &skipError{reason: fmt.Sprintf(format, args...)}
}

// itemFor turns the error of one item into its result
func itemFor(err error) ItemResult {
	if err == nil {
		return ItemResult{Status: StatusOK}
	}
	var s *skipError
	if errors.As(err, &s) {
		return ItemResult{Status: StatusSkipped, Reason: s.reason}
	}
	return ItemResult{Status: StatusFailed, Reason: err.Error()}
}
