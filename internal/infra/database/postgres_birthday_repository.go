package database

import (
	"context"
	"database/sql"
	"fmt"

	"birthday_reminder_bot/internal/domain/birthday"

	"github.com/lib/pq"
)

// PostgresBirthdayRepository reads subscribers and their birthday records.
// Writes happen through the separate record-management surface; the
// evaluation engine only ever queries.
type PostgresBirthdayRepository struct {
	db *sql.DB
}

func NewPostgresBirthdayRepository(db *sql.DB) *PostgresBirthdayRepository {
	return &PostgresBirthdayRepository{db: db}
}

func (r *PostgresBirthdayRepository) ListActiveSubscribers(ctx context.Context) ([]*birthday.Subscriber, error) {
	query := `SELECT id, telegram_id, first_name, last_name, is_active, created_at, updated_at
               FROM subscribers WHERE is_active = TRUE ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := make([]*birthday.Subscriber, 0)
	for rows.Next() {
		s := &birthday.Subscriber{}
		if err := rows.Scan(&s.ID, &s.TelegramID, &s.FirstName, &s.LastName, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning active subscriber: %w", err)
		}
		subscribers = append(subscribers, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active subscribers: %w", err)
	}
	return subscribers, nil
}

func (r *PostgresBirthdayRepository) ListRecords(ctx context.Context, subscriberID int64) ([]*birthday.Record, error) {
	query := `SELECT id, subscriber_id, company, last_name, first_name, position, gift_category,
                      birth_date, notice_days, created_at, updated_at
               FROM birthday_records WHERE subscriber_id = $1 ORDER BY birth_date, last_name`

	rows, err := r.db.QueryContext(ctx, query, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("error listing records for subscriber %d: %w", subscriberID, err)
	}
	defer rows.Close()

	records := make([]*birthday.Record, 0)
	for rows.Next() {
		rec := &birthday.Record{}
		var noticeDays pq.Int64Array
		if err := rows.Scan(&rec.ID, &rec.SubscriberID, &rec.Company, &rec.LastName, &rec.FirstName,
			&rec.Position, &rec.GiftCategory, &rec.BirthDate, &noticeDays, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning record for subscriber %d: %w", subscriberID, err)
		}
		// notice_days is NULL when the record follows the default notice set;
		// a nil slice keeps that distinction in the domain type.
		if noticeDays != nil {
			rec.NoticeDays = make([]int, len(noticeDays))
			for i, d := range noticeDays {
				rec.NoticeDays[i] = int(d)
			}
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records for subscriber %d: %w", subscriberID, err)
	}
	return records, nil
}
