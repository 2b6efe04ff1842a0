package birthday

import (
	"database/sql"
	"time"
)

// Subscriber is a recipient of birthday reminders.
type Subscriber struct {
	ID         int64
	TelegramID int64
	FirstName  string
	LastName   sql.NullString
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Record is a single tracked birthday belonging to a subscriber.
//
// BirthDate carries only the calendar date; its year may be the placeholder
// UnknownYear when the subscriber did not provide one. NoticeDays, when
// non-empty, overrides the application-wide default notice set for this
// record.
type Record struct {
	ID           int64
	SubscriberID int64
	Company      sql.NullString
	LastName     string
	FirstName    sql.NullString
	Position     sql.NullString
	GiftCategory sql.NullString
	BirthDate    time.Time
	NoticeDays   []int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UnknownYear is stored as the birth year when the real year was not
// provided. Due computation only ever reads the month and day.
const UnknownYear = 1904

// HasKnownYear reports whether the record's birth year is real rather than
// the placeholder.
func (r *Record) HasKnownYear() bool {
	return r.BirthDate.Year() != UnknownYear
}

// DisplayName returns the name used in reminder messages.
func (r *Record) DisplayName() string {
	if r.FirstName.Valid && r.FirstName.String != "" {
		return r.FirstName.String + " " + r.LastName
	}
	return r.LastName
}
