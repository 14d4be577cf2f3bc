package worker

import (
	"context"
	"time"

	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/pkg/logger"
)

// OutboxRetention is how long processed events stay around for auditing
// before the prune job removes them.
const OutboxRetention = 7 * 24 * time.Hour

// OutboxPruneJob deletes processed outbox rows past the retention
// window so the table does not grow without bound.
type OutboxPruneJob struct {
	repo   repository.OutboxRepository
	logger *logger.Logger
}

func NewOutboxPruneJob(repo repository.OutboxRepository, logger *logger.Logger) *OutboxPruneJob {
	return &OutboxPruneJob{repo: repo, logger: logger}
}

func (j *OutboxPruneJob) Run(ctx context.Context) {
	cutoff := time.Now().Add(-OutboxRetention)
	deleted, err := j.repo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error(err, "Failed to prune processed outbox events")
		return
	}
	j.logger.Info("Outbox prune finished", "deleted", deleted)
}
