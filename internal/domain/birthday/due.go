package birthday

import (
	"math"
	"time"
)

// DueNotice is the result of a positive due check: the record, the notice
// offset that matched, and the date the birthday actually falls on. It lives
// only for the duration of one evaluation pass.
type DueNotice struct {
	Record    *Record
	DaysUntil int
	OccursOn  time.Time
}

// NextOccurrence maps the record's birth month/day onto ref's year, rolling
// over to the next year when this year's occurrence is already behind ref.
// The time-of-day component of both arguments is ignored; the result is
// midnight in ref's location.
//
// Feb 29 birthdays observe Feb 28 in non-leap years. That choice is
// deliberate and stable: a leap-day record fires on exactly one day every
// year.
func NextOccurrence(birthDate, ref time.Time) time.Time {
	refDay := truncateToDay(ref)
	occ := occurrenceInYear(birthDate, refDay.Year(), refDay.Location())
	if occ.Before(refDay) {
		occ = occurrenceInYear(birthDate, refDay.Year()+1, refDay.Location())
	}
	return occ
}

// DaysUntil returns the number of whole calendar days from ref to the next
// occurrence of the birthday, always >= 0 (0 means the birthday is on ref's
// date). Computed in ref's location so DST-shortened or -lengthened days
// cannot skew the count.
func DaysUntil(birthDate, ref time.Time) int {
	occ := NextOccurrence(birthDate, ref)
	return int(math.Round(occ.Sub(truncateToDay(ref)).Hours() / 24))
}

// EffectiveNoticeDays returns the notice set that applies to the record: its
// own override list when present and non-empty, else the default set.
func EffectiveNoticeDays(rec *Record, defaultNotice []int) []int {
	if len(rec.NoticeDays) > 0 {
		return rec.NoticeDays
	}
	return defaultNotice
}

// IsDue decides whether the record is due on ref's calendar date. Pure: no
// clock access, no side effects, safe to call concurrently.
func IsDue(ref time.Time, rec *Record, defaultNotice []int) (*DueNotice, bool) {
	days := DaysUntil(rec.BirthDate, ref)
	for _, d := range EffectiveNoticeDays(rec, defaultNotice) {
		if d == days {
			return &DueNotice{
				Record:    rec,
				DaysUntil: days,
				OccursOn:  NextOccurrence(rec.BirthDate, ref),
			}, true
		}
	}
	return nil, false
}

func occurrenceInYear(birthDate time.Time, year int, loc *time.Location) time.Time {
	month, day := birthDate.Month(), birthDate.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
