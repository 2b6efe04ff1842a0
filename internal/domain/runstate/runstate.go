package runstate

import (
	"context"
	"errors"
	"time"
)

// ErrStateNotFound is returned by Store.Load before the first successful
// evaluation pass, when no state has ever been persisted.
var ErrStateNotFound = errors.New("run state not found")

// RunState is the durable marker of evaluation progress: the last calendar
// date for which a full evaluation pass completed. It only ever moves
// forward, and only after the date's dispatch finished.
type RunState struct {
	LastCompletedDate time.Time
}

// Store persists the RunState singleton. Save must be atomic with respect to
// process crash: a reader observes either the previous or the new state,
// never a partial write.
type Store interface {
	Load(ctx context.Context) (*RunState, error)
	Save(ctx context.Context, state *RunState) error
}

// PendingDates returns the calendar dates with no completed evaluation, in
// ascending order: every date strictly after the last completed one, up to
// and including tickDate. A nil state (first run) yields only tickDate. A
// state already at or past tickDate yields nothing, which makes duplicate
// ticks no-ops.
func PendingDates(state *RunState, tickDate time.Time) []time.Time {
	tick := Day(tickDate)
	if state == nil {
		return []time.Time{tick}
	}
	last := Day(state.LastCompletedDate.In(tickDate.Location()))
	var dates []time.Time
	for d := last.AddDate(0, 0, 1); !d.After(tick); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Day truncates t to midnight of its calendar date, keeping the location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
