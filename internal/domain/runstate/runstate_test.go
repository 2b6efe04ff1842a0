package runstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPendingDates_FirstRun(t *testing.T) {
	dates := PendingDates(nil, day(2025, time.May, 10))
	require.Len(t, dates, 1)
	assert.Equal(t, day(2025, time.May, 10), dates[0])
}

func TestPendingDates_ThreeDaysBehind(t *testing.T) {
	state := &RunState{LastCompletedDate: day(2025, time.May, 7)}
	dates := PendingDates(state, day(2025, time.May, 10))

	require.Len(t, dates, 3)
	assert.Equal(t, day(2025, time.May, 8), dates[0])
	assert.Equal(t, day(2025, time.May, 9), dates[1])
	assert.Equal(t, day(2025, time.May, 10), dates[2])
}

func TestPendingDates_AlreadyCompleted(t *testing.T) {
	state := &RunState{LastCompletedDate: day(2025, time.May, 10)}
	assert.Empty(t, PendingDates(state, day(2025, time.May, 10)))
}

func TestPendingDates_StateAheadOfTick(t *testing.T) {
	// A stale duplicate tick for a date already behind the state is a no-op.
	state := &RunState{LastCompletedDate: day(2025, time.May, 11)}
	assert.Empty(t, PendingDates(state, day(2025, time.May, 10)))
}

func TestPendingDates_IgnoresTimeOfDay(t *testing.T) {
	state := &RunState{LastCompletedDate: day(2025, time.May, 9)}
	tick := time.Date(2025, time.May, 10, 15, 30, 45, 0, time.UTC)

	dates := PendingDates(state, tick)
	require.Len(t, dates, 1)
	assert.Equal(t, day(2025, time.May, 10), dates[0])
}

func TestPendingDates_CrossesMonthBoundary(t *testing.T) {
	state := &RunState{LastCompletedDate: day(2025, time.April, 29)}
	dates := PendingDates(state, day(2025, time.May, 1))

	require.Len(t, dates, 2)
	assert.Equal(t, day(2025, time.April, 30), dates[0])
	assert.Equal(t, day(2025, time.May, 1), dates[1])
}
