// internal/app/evaluation_service.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"birthday_reminder_bot/internal/domain/birthday"
	"birthday_reminder_bot/internal/domain/runstate"
	domainTelegram "birthday_reminder_bot/internal/domain/telegram"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EvaluationService runs the daily reminder evaluation. One call handles
// everything owed at the given moment: the current date plus any dates the
// process slept through, oldest first.
type EvaluationService interface {
	RunEvaluation(ctx context.Context, now time.Time) error
}

// DeliveryFailure records one subscriber whose notification could not be
// delivered during a pass. Failures are reported, not retried: the same
// notice window does not repeat, and the next day's pass is unaffected.
type DeliveryFailure struct {
	SubscriberID int64
	TelegramID   int64
	Err          error
}

// EvaluationReport summarizes one completed sub-pass (one calendar date).
type EvaluationReport struct {
	ID               uuid.UUID
	Date             time.Time
	Subscribers      int
	DueNotices       int
	Delivered        int
	DeliveryFailures []DeliveryFailure
}

// EvaluationServiceImpl implements the EvaluationService interface.
type EvaluationServiceImpl struct {
	recordRepo        birthday.Repository
	stateStore        runstate.Store
	telegramClient    domainTelegram.Client
	logger            *logrus.Logger
	defaultNoticeDays []int
	location          *time.Location
}

func NewEvaluationServiceImpl(
	rr birthday.Repository,
	ss runstate.Store,
	tc domainTelegram.Client,
	logger *logrus.Logger,
	defaultNoticeDays []int,
	location *time.Location,
) *EvaluationServiceImpl {
	return &EvaluationServiceImpl{
		recordRepo:        rr,
		stateStore:        ss,
		telegramClient:    tc,
		logger:            logger,
		defaultNoticeDays: defaultNoticeDays,
		location:          location,
	}
}

// RunEvaluation determines every calendar date still owed an evaluation and
// processes them in ascending order. The run state is persisted after each
// date, never before its dispatch finished, so a crash at any point either
// re-sends at most one date's notifications on restart or loses nothing.
// Passes for dates whose evaluation already completed are no-ops.
func (s *EvaluationServiceImpl) RunEvaluation(ctx context.Context, now time.Time) error {
	tickDate := runstate.Day(now.In(s.location))

	state, err := s.stateStore.Load(ctx)
	if err != nil {
		if err != runstate.ErrStateNotFound {
			return fmt.Errorf("failed to load run state: %w", err)
		}
		s.logger.Info("No run state found, treating this as the first evaluation run.")
		state = nil
	}

	dates := runstate.PendingDates(state, tickDate)
	if len(dates) == 0 {
		s.logger.Infof("Evaluation for %s already completed. Nothing to do.", tickDate.Format("2006-01-02"))
		return nil
	}
	if len(dates) > 1 {
		s.logger.Warnf("Detected %d unprocessed dates (process downtime?). Catching up from %s through %s.",
			len(dates), dates[0].Format("2006-01-02"), dates[len(dates)-1].Format("2006-01-02"))
	}

	for _, date := range dates {
		report, err := s.evaluateDate(ctx, date)
		if err != nil {
			// Fetch failure: abort without advancing state so the date is
			// retried as a catch-up date on the next tick.
			return fmt.Errorf("evaluation for %s aborted: %w", date.Format("2006-01-02"), err)
		}

		if err := s.stateStore.Save(ctx, &runstate.RunState{LastCompletedDate: date}); err != nil {
			// The date stays uncommitted; the next tick reprocesses it.
			// Duplicates are acceptable, skipped dates are not.
			return fmt.Errorf("failed to persist run state for %s: %w", date.Format("2006-01-02"), err)
		}

		entry := s.logger.WithFields(logrus.Fields{
			"report_id":   report.ID,
			"date":        report.Date.Format("2006-01-02"),
			"subscribers": report.Subscribers,
			"due_notices": report.DueNotices,
			"delivered":   report.Delivered,
			"failed":      len(report.DeliveryFailures),
		})
		if len(report.DeliveryFailures) > 0 {
			for _, f := range report.DeliveryFailures {
				s.logger.Errorf("Delivery to subscriber %d (TG_ID: %d) failed: %v", f.SubscriberID, f.TelegramID, f.Err)
			}
			entry.Warn("Evaluation pass committed with delivery failures.")
		} else {
			entry.Info("Evaluation pass committed.")
		}
	}
	return nil
}

// subscriberBatch groups one subscriber with their due notices for a date.
type subscriberBatch struct {
	subscriber *birthday.Subscriber
	notices    []*birthday.DueNotice
}

// evaluateDate runs one sub-pass: fetch, compute, dispatch. It returns an
// error only for fetch failures; delivery failures are collected in the
// report and do not block the date's commit.
func (s *EvaluationServiceImpl) evaluateDate(ctx context.Context, date time.Time) (*EvaluationReport, error) {
	s.logger.Infof("Evaluating reminders for %s.", date.Format("2006-01-02"))

	subscribers, err := s.recordRepo.ListActiveSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscribers: %w", err)
	}

	report := &EvaluationReport{ID: uuid.New(), Date: date, Subscribers: len(subscribers)}
	if len(subscribers) == 0 {
		s.logger.Info("No active subscribers. Nothing to dispatch.")
		return report, nil
	}

	batches := make([]subscriberBatch, 0, len(subscribers))
	for _, sub := range subscribers {
		records, err := s.recordRepo.ListRecords(ctx, sub.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list records for subscriber %d: %w", sub.ID, err)
		}

		var notices []*birthday.DueNotice
		for _, rec := range records {
			if notice, due := birthday.IsDue(date, rec, s.defaultNoticeDays); due {
				notices = append(notices, notice)
			}
		}
		report.DueNotices += len(notices)
		batches = append(batches, subscriberBatch{subscriber: sub, notices: notices})
	}

	// Fan out per subscriber. Batches are independent; the only shared state
	// is the report, guarded by mu.
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, b := range batches {
		wg.Add(1)
		go func(b subscriberBatch) {
			defer wg.Done()

			var text string
			if len(b.notices) > 0 {
				text = BuildReminderMessage(date, b.notices)
			} else {
				// Even with nothing due, the subscriber hears from the bot
				// once a day. Silence would be indistinguishable from an
				// outage.
				text = FallbackPhrase(date)
			}

			if err := s.telegramClient.SendMessage(b.subscriber.TelegramID, text, nil); err != nil {
				mu.Lock()
				report.DeliveryFailures = append(report.DeliveryFailures, DeliveryFailure{
					SubscriberID: b.subscriber.ID,
					TelegramID:   b.subscriber.TelegramID,
					Err:          err,
				})
				mu.Unlock()
				return
			}
			mu.Lock()
			report.Delivered++
			mu.Unlock()
		}(b)
	}
	wg.Wait()

	return report, nil
}
