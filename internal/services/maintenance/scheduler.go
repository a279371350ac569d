package maintenance

import (
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/store"
)

// gcDiscardRatio is the badger value-log rewrite threshold.
const gcDiscardRatio = 0.5

// Scheduler runs periodic value-log GC across the open vector stores.
type Scheduler struct {
	stores *store.Manager
	cron   *cron.Cron
	cfg    common.MaintenanceConfig
	logger arbor.ILogger
}

// NewScheduler creates the maintenance scheduler.
func NewScheduler(stores *store.Manager, cfg common.MaintenanceConfig, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		stores: stores,
		cron:   cron.New(),
		cfg:    cfg,
		logger: logger,
	}
}

// Start begins the scheduled GC runs. Disabled config is a no-op.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Debug().Msg("Store maintenance disabled")
		return nil
	}

	schedule := s.cfg.Schedule
	if schedule == "" {
		schedule = "@every 1h"
	}

	if _, err := s.cron.AddFunc(schedule, s.RunNow); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", schedule).Msg("Store maintenance scheduler started")
	return nil
}

// RunNow triggers an immediate GC pass.
func (s *Scheduler) RunNow() {
	s.logger.Debug().Msg("Running vector store GC")
	s.stores.RunGC(gcDiscardRatio)
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Debug().Msg("Store maintenance scheduler stopped")
}
