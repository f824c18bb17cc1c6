package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job represents a scheduled job.
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New creates a new scheduler.
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger.Named("Scheduler"),
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// AddJob registers a job with a cron schedule, e.g. "@every 1m" or
// "*/5 * * * *".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.logger.Debug("Running job", zap.String("job", job.Name()))

		if err := job.Run(); err != nil {
			s.logger.Error("Job failed",
				zap.String("job", job.Name()),
				zap.Error(err))
			return
		}
		s.logger.Debug("Job completed", zap.String("job", job.Name()))
	})
	if err != nil {
		return err
	}

	s.logger.Info("Job registered",
		zap.String("schedule", schedule),
		zap.String("job", job.Name()))
	return nil
}
