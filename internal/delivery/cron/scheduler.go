package cron

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	cron "github.com/robfig/cron/v3"

	"youtube_trend_collector/config"
	"youtube_trend_collector/internal/logger"
	"youtube_trend_collector/internal/usecase"
)

// State describes the scheduler lifecycle
type State string

const (
	// StateStopped means the scheduler is not ticking
	StateStopped State = "stopped"

	// StateRunning means the scheduler is ticking
	StateRunning State = "running"
)

// Scheduler owns the periodic full collection run. It is an explicit
// object with Start/Stop and an observable state rather than a
// process-wide singleton.
type Scheduler struct {
	cron       *cron.Cron
	config     *config.Config
	collector  *usecase.Collector
	ctx        context.Context
	cancel     context.CancelFunc
	running    atomic.Bool
	jobRunning atomic.Bool
}

// NewScheduler creates a new cron scheduler
func NewScheduler(cfg *config.Config, collector *usecase.Collector) *Scheduler {
	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	// Create cron with seconds support
	c := cron.New(cron.WithSeconds())

	return &Scheduler{
		cron:      c,
		config:    cfg,
		collector: collector,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start starts the cron scheduler
func (s *Scheduler) Start() error {
	schedule := normalizeSchedule(s.config.CronSchedule)
	jobID, err := s.cron.AddFunc(schedule, s.collectJob)
	if err != nil {
		return fmt.Errorf("failed to schedule collection job: %w", err)
	}
	logger.Info().Printf("Scheduled collection job with ID: %d, schedule: %s", jobID, schedule)

	s.cron.Start()
	s.running.Store(true)
	logger.Info().Println("Cron scheduler started")

	// Run an initial collection immediately
	go s.collectJob()

	return nil
}

// Stop stops the cron scheduler gracefully
func (s *Scheduler) Stop() {
	logger.Info().Println("Stopping cron scheduler...")
	s.cancel()
	s.cron.Stop()
	s.running.Store(false)
	logger.Info().Println("Cron scheduler stopped")
}

// State returns the observable scheduler state
func (s *Scheduler) State() State {
	if s.running.Load() {
		return StateRunning
	}
	return StateStopped
}

// collectJob runs one full collection pass. A tick that fires while the
// previous pass is still in flight is skipped; nothing here protects
// against a concurrent manual trigger through the HTTP API.
func (s *Scheduler) collectJob() {
	if !s.jobRunning.CompareAndSwap(false, true) {
		logger.Info().Println("Skipping collection tick: previous run still in progress")
		return
	}
	defer s.jobRunning.Store(false)

	logger.Info().Println("Starting scheduled collection run...")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Minute)
	defer cancel()

	report, err := s.collector.CollectAll(ctx, s.config.ResultLimit)
	if err != nil {
		logger.Error().Printf("Scheduled collection run failed: %v", err)
		return
	}

	duration := time.Since(startTime)
	logger.Info().Printf("Scheduled collection run completed in %v (status=%s, keywords=%d, videos=%d)",
		duration, report.Status, report.KeywordCount, report.TotalVideos)
}

// normalizeSchedule ensures cron expressions are compatible with cron.WithSeconds
func normalizeSchedule(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) == 5 {
		return "0 " + expr
	}
	return expr
}
