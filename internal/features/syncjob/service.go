package syncjob

import (
	"context"
	"fmt"

	"go-cityreport/internal/config"
	"go-cityreport/internal/features/report"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RefreshService periodically re-fetches the full collection so the eager
// view recovers from any change-feed notifications missed while the listener
// reconnects.
type RefreshService struct {
	store    *report.Store
	schedule string
	logger   *zap.Logger

	scheduler *cron.Cron
}

func NewRefreshService(store *report.Store, cfg *config.Config, logger *zap.Logger) *RefreshService {
	return &RefreshService{
		store:    store,
		schedule: cfg.RefreshSchedule,
		logger:   logger,
	}
}

func (s *RefreshService) Start(ctx context.Context) error {
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.schedule, err)
	}

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.schedule, func() {
		if err := s.store.FetchAll(context.Background(), ""); err != nil {
			s.logger.Warn("scheduled report refresh failed", zap.Error(err))
			return
		}
		s.logger.Debug("scheduled report refresh completed")
	})
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.logger.Info("report refresh job started", zap.String("schedule", s.schedule))
	return nil
}

func (s *RefreshService) Stop() error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return nil
}
