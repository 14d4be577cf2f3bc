package worker

import (
	"context"

	"github.com/hiloazul/tailor-api/internal/service/draft"
	"github.com/hiloazul/tailor-api/pkg/logger"
	"github.com/hiloazul/tailor-api/pkg/metrics"
)

// DraftCleanupJob purges wizard drafts that have not been touched for
// the retention period.
type DraftCleanupJob struct {
	drafts  draft.DraftService
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewDraftCleanupJob(drafts draft.DraftService, logger *logger.Logger, metrics *metrics.Metrics) *DraftCleanupJob {
	return &DraftCleanupJob{
		drafts:  drafts,
		logger:  logger,
		metrics: metrics,
	}
}

func (j *DraftCleanupJob) Run(ctx context.Context) {
	purged, err := j.drafts.PurgeStale(ctx)
	if err != nil {
		j.logger.Error(err, "Failed to purge stale drafts")
		return
	}
	j.metrics.DraftsPurged.Add(float64(purged))
	j.logger.Info("Stale draft cleanup finished", "purged", purged)
}
