// Package jobs runs background tasks on a cron schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// MidnightSpec fires at the start of every calendar day.
const MidnightSpec = "0 0 * * *"

// DayRoller is anything that can roll its daily state over.
type DayRoller interface {
	CheckDailyReset(ctx context.Context) bool
}

// RolloverScheduler triggers the daily reset at midnight so a long-running
// process rolls over even when no answers arrive.
type RolloverScheduler struct {
	cron   *cron.Cron
	roller DayRoller
	log    logrus.FieldLogger
}

func NewRolloverScheduler(roller DayRoller, loc *time.Location, log logrus.FieldLogger) *RolloverScheduler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RolloverScheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		roller: roller,
		log:    log,
	}
}

// Start registers the midnight job and starts the scheduler.
func (s *RolloverScheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(MidnightSpec, func() { s.Run(ctx) }); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("rollover scheduler started")
	return nil
}

// Run performs one rollover check.
func (s *RolloverScheduler) Run(ctx context.Context) bool {
	rolled := s.roller.CheckDailyReset(ctx)
	s.log.WithField("rolled", rolled).Debug("[CRON] daily rollover check")
	return rolled
}

// Stop waits for a running job to finish.
func (s *RolloverScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("rollover scheduler stopped")
}
