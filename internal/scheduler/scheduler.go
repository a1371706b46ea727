// Package scheduler runs the periodic pass maintenance job: it logs the
// current peak of every open pass and closes passes that went idle.
package scheduler

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/soltixdb/cyclepeak/internal/config"
	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/models"
)

// PassService is the part of the peak service the scheduler drives
type PassService interface {
	ListPasses() *models.PassListResponse
	EvictIdle(idleTimeout time.Duration) []models.PassResponse
}

// Scheduler manages the pass report cron job
type Scheduler struct {
	cron        *cron.Cron
	service     PassService
	schedule    string
	idleTimeout time.Duration
	logger      *logging.Logger

	runs    atomic.Int64
	evicted atomic.Int64
}

// New creates a scheduler for cfg. An empty report schedule leaves the job
// unregistered; Start and Stop are still safe to call.
func New(service PassService, cfg config.PassesConfig, logger *logging.Logger) (*Scheduler, error) {
	if service == nil {
		return nil, fmt.Errorf("pass service is nil")
	}
	if logger == nil {
		logger = logging.Global()
	}

	s := &Scheduler{
		cron:        cron.New(),
		service:     service,
		schedule:    cfg.ReportSchedule,
		idleTimeout: cfg.IdleTimeout,
		logger:      logger.With("component", "scheduler"),
	}

	if s.schedule != "" {
		if _, err := s.cron.AddFunc(s.schedule, s.reportTask); err != nil {
			return nil, fmt.Errorf("register pass report task: %w", err)
		}
	}
	return s, nil
}

// Start starts the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", "schedule", s.schedule, "idle_timeout", s.idleTimeout)
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RunNow executes the report job immediately
func (s *Scheduler) RunNow() {
	s.reportTask()
}

func (s *Scheduler) reportTask() {
	s.runs.Add(1)

	evicted := s.service.EvictIdle(s.idleTimeout)
	for _, pass := range evicted {
		s.logger.Info("Evicted idle pass",
			append([]interface{}{"idle_timeout", s.idleTimeout}, passFields(pass)...)...)
	}
	s.evicted.Add(int64(len(evicted)))

	list := s.service.ListPasses()
	for _, pass := range list.Passes {
		s.logger.Info("Pass report", passFields(pass)...)
	}

	s.logger.Debug("Pass report completed",
		"active", len(list.Passes),
		"evicted", len(evicted))
}

func passFields(pass models.PassResponse) []interface{} {
	fields := []interface{}{
		"pass_id", pass.ID,
		"kind", pass.Kind,
		"count", pass.Count,
		"updated_at", pass.UpdatedAt,
	}
	if pass.Peak != nil {
		fields = append(fields, "defined", pass.Peak.Defined)
		if pass.Peak.Peak != nil {
			fields = append(fields, "peak", *pass.Peak.Peak)
		}
	}
	return fields
}

// Stats returns scheduler counters
func (s *Scheduler) Stats() map[string]interface{} {
	return map[string]interface{}{
		"schedule":     s.schedule,
		"idle_timeout": s.idleTimeout.String(),
		"runs":         s.runs.Load(),
		"evicted":      s.evicted.Load(),
		"jobs":         len(s.cron.Entries()),
	}
}
