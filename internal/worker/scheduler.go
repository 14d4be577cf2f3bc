package worker

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/hiloazul/tailor-api/pkg/logger"
)

// Scheduler runs the shop's recurring jobs: deadline reminder emails
// every morning, stale-draft cleanup overnight and outbox pruning once
// a week.
type Scheduler struct {
	cron     *cron.Cron
	reminder *ReminderJob
	cleanup  *DraftCleanupJob
	prune    *OutboxPruneJob
	logger   *logger.Logger
}

func NewScheduler(reminder *ReminderJob, cleanup *DraftCleanupJob, prune *OutboxPruneJob, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		reminder: reminder,
		cleanup:  cleanup,
		prune:    prune,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("0 9 * * *", func() { s.reminder.Run(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("30 3 * * *", func() { s.cleanup.Run(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 4 * * 0", func() { s.prune.Run(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Job scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Job scheduler stopped")
}
