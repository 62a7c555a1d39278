// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/football-elo/internal/config"
	"github.com/yourusername/football-elo/internal/service"
)

const jobTimeout = 5 * time.Minute

// Scheduler refreshes predictions on a cron schedule so the dashboard stays
// current even when no scores arrive, for example after a parameter change
// applied directly to the database.
type Scheduler struct {
	cfg         *config.SchedulerConfig
	predictions *service.PredictionService
	logger      *logrus.Logger
	cron        *cron.Cron
}

// NewScheduler creates a scheduler from the scheduler configuration.
func NewScheduler(cfg *config.SchedulerConfig, predictions *service.PredictionService, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cfg:         cfg,
		predictions: predictions,
		logger:      logger,
		cron:        cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("Scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.PredictionRefresh, s.refreshPredictions); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.WithField("prediction_refresh", s.cfg.PredictionRefresh).Info("Scheduler started")
	return nil
}

// Stop stops the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) refreshPredictions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	written, err := s.predictions.RegenerateAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled prediction refresh failed")
		return
	}
	s.logger.WithField("predictions_written", written).Info("Scheduled prediction refresh complete")
}
