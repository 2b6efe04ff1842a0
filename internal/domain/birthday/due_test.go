package birthday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(loc *time.Location, y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func TestIsDue_DefaultNoticeWindow(t *testing.T) {
	rec := &Record{ID: 1, LastName: "Иванов", BirthDate: date(time.UTC, 1990, time.May, 10)}
	defaultNotice := []int{0, 7}

	tests := []struct {
		name     string
		ref      time.Time
		wantDue  bool
		wantDays int
	}{
		{"seven days before", date(time.UTC, 2025, time.May, 3), true, 7},
		{"same day", date(time.UTC, 2025, time.May, 10), true, 0},
		{"six days before", date(time.UTC, 2025, time.May, 4), false, 0},
		{"day after", date(time.UTC, 2025, time.May, 11), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notice, due := IsDue(tt.ref, rec, defaultNotice)
			assert.Equal(t, tt.wantDue, due)
			if tt.wantDue {
				require.NotNil(t, notice)
				assert.Equal(t, tt.wantDays, notice.DaysUntil)
				assert.Equal(t, rec, notice.Record)
			}
		})
	}
}

func TestIsDue_RecordOverrideWinsOverDefault(t *testing.T) {
	rec := &Record{
		ID:         2,
		LastName:   "Петров",
		BirthDate:  date(time.UTC, 1985, time.September, 1),
		NoticeDays: []int{30},
	}
	defaultNotice := []int{0, 7}

	// 30 days before 2025-09-01
	notice, due := IsDue(date(time.UTC, 2025, time.August, 2), rec, defaultNotice)
	require.True(t, due)
	assert.Equal(t, 30, notice.DaysUntil)

	// The default offsets must not apply when an override exists.
	_, due = IsDue(date(time.UTC, 2025, time.August, 25), rec, defaultNotice)
	assert.False(t, due, "7-day default offset should be ignored")
	_, due = IsDue(date(time.UTC, 2025, time.September, 1), rec, defaultNotice)
	assert.False(t, due, "0-day default offset should be ignored")
}

func TestIsDue_EmptyOverrideFallsBackToDefault(t *testing.T) {
	rec := &Record{
		ID:         3,
		LastName:   "Сидорова",
		BirthDate:  date(time.UTC, 2000, time.December, 31),
		NoticeDays: []int{},
	}

	notice, due := IsDue(date(time.UTC, 2025, time.December, 31), rec, []int{0})
	require.True(t, due)
	assert.Equal(t, 0, notice.DaysUntil)
}

func TestNextOccurrence_YearWrap(t *testing.T) {
	birth := date(time.UTC, 1990, time.May, 10)

	occ := NextOccurrence(birth, date(time.UTC, 2025, time.June, 1))
	assert.Equal(t, date(time.UTC, 2026, time.May, 10), occ)

	// The occurrence on the reference date itself does not roll over.
	occ = NextOccurrence(birth, date(time.UTC, 2025, time.May, 10))
	assert.Equal(t, date(time.UTC, 2025, time.May, 10), occ)
}

func TestNextOccurrence_LeapDay(t *testing.T) {
	birth := date(time.UTC, 1992, time.February, 29)

	// Non-leap year: observed on Feb 28.
	occ := NextOccurrence(birth, date(time.UTC, 2025, time.February, 1))
	assert.Equal(t, date(time.UTC, 2025, time.February, 28), occ)

	// Leap year: the real date.
	occ = NextOccurrence(birth, date(time.UTC, 2024, time.February, 1))
	assert.Equal(t, date(time.UTC, 2024, time.February, 29), occ)

	// Rolling over from past Feb into the next (non-leap) year.
	occ = NextOccurrence(birth, date(time.UTC, 2025, time.March, 1))
	assert.Equal(t, date(time.UTC, 2026, time.February, 28), occ)
}

func TestDaysUntil_AcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2025-03-09 is the spring-forward date in New York; the interval from
	// March 1 to July 4 is one hour short of a whole number of days. The
	// count must still be exact.
	birth := date(loc, 1970, time.July, 4)
	assert.Equal(t, 125, DaysUntil(birth, date(loc, 2025, time.March, 1)))
}

func TestDaysUntil_NeverNegative(t *testing.T) {
	birth := date(time.UTC, 1999, time.January, 2)
	ref := date(time.UTC, 2025, time.January, 3)
	assert.Equal(t, 364, DaysUntil(birth, ref))
}

func TestIsDue_Pure(t *testing.T) {
	rec := &Record{ID: 4, LastName: "Козлов", BirthDate: date(time.UTC, 1990, time.May, 10)}
	ref := date(time.UTC, 2025, time.May, 3)

	first, dueFirst := IsDue(ref, rec, []int{0, 7})
	second, dueSecond := IsDue(ref, rec, []int{0, 7})
	assert.Equal(t, dueFirst, dueSecond)
	assert.Equal(t, first, second)
}

func TestIsDue_FiresOnExactlyOneDatePerOffset(t *testing.T) {
	rec := &Record{ID: 5, LastName: "Новикова", BirthDate: date(time.UTC, 1988, time.April, 15)}
	occurrence := date(time.UTC, 2025, time.April, 15)

	dueDates := 0
	for d := date(time.UTC, 2024, time.April, 16); d.Before(date(time.UTC, 2025, time.April, 16)); d = d.AddDate(0, 0, 1) {
		if notice, due := IsDue(d, rec, []int{7}); due {
			dueDates++
			assert.Equal(t, 7, notice.DaysUntil)
			assert.Equal(t, occurrence.AddDate(0, 0, -7), d)
		}
	}
	assert.Equal(t, 1, dueDates, "a single 7-day offset fires exactly once per year")
}

func TestRecord_UnknownYear(t *testing.T) {
	known := &Record{BirthDate: date(time.UTC, 1990, time.May, 10)}
	unknown := &Record{BirthDate: date(time.UTC, UnknownYear, time.May, 10)}

	assert.True(t, known.HasKnownYear())
	assert.False(t, unknown.HasKnownYear())

	// The birth year never affects the due computation.
	ref := date(time.UTC, 2025, time.May, 3)
	assert.Equal(t, DaysUntil(known.BirthDate, ref), DaysUntil(unknown.BirthDate, ref))
}
