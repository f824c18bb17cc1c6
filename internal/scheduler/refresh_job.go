package scheduler

import (
	"context"
	"time"

	"portfolio_checker/internal/service"

	"go.uber.org/zap"
)

// refreshTimeout bounds one scheduled fleet refresh. Individual sub-fetches
// carry their own 10s timeouts; this is the outer envelope.
const refreshTimeout = 2 * time.Minute

// RefreshJob runs a fleet refresh on a recurring schedule.
type RefreshJob struct {
	service *service.PortfolioService
	logger  *zap.Logger
}

// NewRefreshJob creates a new RefreshJob.
func NewRefreshJob(svc *service.PortfolioService, logger *zap.Logger) *RefreshJob {
	return &RefreshJob{
		service: svc,
		logger:  logger.Named("RefreshJob"),
	}
}

// Name returns the job name.
func (j *RefreshJob) Name() string {
	return "portfolio_refresh"
}

// Run executes one fleet refresh. RefreshAll never fails; a fully degraded
// refresh still produces zero-valued snapshots.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	result := j.service.RefreshAll(ctx)
	j.logger.Info("Scheduled refresh completed",
		zap.Int("wallets", len(result.Snapshots)),
		zap.String("fleetTotal", result.Total.String()))
	return nil
}
