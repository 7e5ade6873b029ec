package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/lmendez/inventario/internal/config"
	"github.com/lmendez/inventario/internal/service/coordinator"
	"github.com/lmendez/inventario/internal/service/reporting"
)

// Scheduler manages the POS client's recurring jobs: the periodic refresh
// from the remote store and the end-of-day summary snapshot.
type Scheduler struct {
	cron         *cron.Cron
	coord        *coordinator.Coordinator
	reportingSvc *reporting.Service
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, coord *coordinator.Coordinator, reportingSvc *reporting.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:         cron.New(),
		coord:        coord,
		reportingSvc: reportingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	spec := fmt.Sprintf("@every %s", s.cfg.Sync.RefreshInterval)
	if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
		s.logger.Error("failed to schedule periodic sync", zap.Error(err))
	}

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.snapshotDaily); err != nil {
		s.logger.Error("failed to schedule daily snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.coord.SyncAll(ctx); err != nil {
		s.logger.Warn("periodic sync failed", zap.Error(err))
	}
}

func (s *Scheduler) snapshotDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.reportingSvc.SnapshotDaily(ctx); err != nil {
		if err == reporting.ErrNoRepository {
			return
		}
		s.logger.Error("failed to save daily summary", zap.Error(err))
	}
}
