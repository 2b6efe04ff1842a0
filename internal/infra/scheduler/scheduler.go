package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"birthday_reminder_bot/internal/app" // For EvaluationService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const evaluationTimeout = 10 * time.Minute

// DailyTrigger fires one evaluation tick per local calendar day at the
// configured wall-clock time in the configured timezone. It also fires a
// catch-up tick at startup so dates the process slept through are evaluated
// immediately instead of waiting for the next scheduled time.
type DailyTrigger struct {
	cronEngine  *cron.Cron
	evalService app.EvaluationService
	logger      *logrus.Logger
	location    *time.Location
	hour        int
	minute      int

	// passMu serializes evaluation passes: the startup catch-up and a cron
	// tick must never overlap.
	passMu sync.Mutex
}

func NewDailyTrigger(
	evalService app.EvaluationService,
	logger *logrus.Logger,
	location *time.Location,
	hour, minute int,
) *DailyTrigger {
	return &DailyTrigger{
		cronEngine:  cron.New(cron.WithLocation(location)),
		evalService: evalService,
		logger:      logger,
		location:    location,
		hour:        hour,
		minute:      minute,
	}
}

// Start registers the daily cron job and then runs the startup catch-up in
// the background.
func (t *DailyTrigger) Start() error {
	spec := fmt.Sprintf("%d %d * * *", t.minute, t.hour)
	_, err := t.cronEngine.AddFunc(spec, func() {
		t.logger.Infof("Daily trigger fired (%02d:%02d %s).", t.hour, t.minute, t.location)
		t.runPass(time.Now().In(t.location))
	})
	if err != nil {
		return fmt.Errorf("could not register daily trigger job %q: %w", spec, err)
	}

	t.cronEngine.Start()
	t.logger.Infof("Daily trigger scheduled at %02d:%02d %s.", t.hour, t.minute, t.location)

	go t.catchUp()
	return nil
}

// catchUp runs one evaluation against the most recent date whose trigger
// time has already passed. If today's trigger is still ahead, today is not
// owed yet and the reference rolls back to yesterday; dates already
// committed in the run state make the whole pass a no-op.
func (t *DailyTrigger) catchUp() {
	now := time.Now().In(t.location)
	todayTrigger := time.Date(now.Year(), now.Month(), now.Day(), t.hour, t.minute, 0, 0, t.location)
	ref := now
	if now.Before(todayTrigger) {
		ref = now.AddDate(0, 0, -1)
	}
	t.logger.Infof("Running startup catch-up check (reference date %s).", ref.Format("2006-01-02"))
	t.runPass(ref)
}

func (t *DailyTrigger) runPass(ref time.Time) {
	t.passMu.Lock()
	defer t.passMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), evaluationTimeout)
	defer cancel()
	if err := t.evalService.RunEvaluation(ctx, ref); err != nil {
		t.logger.Errorf("Evaluation run failed: %v", err)
	}
}

// Stop halts future ticks and waits for a running pass to finish, so a pass
// in flight is not cut off one date short of committing.
func (t *DailyTrigger) Stop() {
	t.logger.Info("Stopping daily trigger...")
	ctx := t.cronEngine.Stop() // No new jobs; waits for running ones.
	<-ctx.Done()
	t.passMu.Lock() // Wait out a startup catch-up still in flight.
	t.passMu.Unlock()
	t.logger.Info("Daily trigger stopped.")
}
