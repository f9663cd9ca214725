package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"CoinPulse/internal/collector"
	"CoinPulse/internal/reporter"
)

// Config holds the scheduling knobs. Kept explicit so retry state and
// cadence never live in package-level globals.
type Config struct {
	FetchCron      string // default: every 5 minutes
	AnalyticsCron  string // default: hourly
	MaxConsecutive int    // failure bound before the operator alarm, default 5
}

// Scheduler runs the fetch and analytics tasks on cron schedules.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Reporter  *reporter.Reporter
	Ctx       context.Context

	cfg Config

	mu                  sync.Mutex
	consecutiveFailures int
	totalFailures       int
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, rep *reporter.Reporter, cfg Config) *Scheduler {
	if cfg.FetchCron == "" {
		cfg.FetchCron = "0 */5 * * * *"
	}
	if cfg.AnalyticsCron == "" {
		cfg.AnalyticsCron = "0 0 * * * *"
	}
	if cfg.MaxConsecutive <= 0 {
		cfg.MaxConsecutive = 5
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Reporter:  rep,
		Ctx:       ctx,
		cfg:       cfg,
	}
}

// Register installs the fetch and analytics cron tasks.
func (s *Scheduler) Register() error {
	if _, err := s.Cron.AddFunc(s.cfg.FetchCron, s.fetchTask); err != nil {
		return fmt.Errorf("register fetch task: %w", err)
	}
	if _, err := s.Cron.AddFunc(s.cfg.AnalyticsCron, s.analyticsTask); err != nil {
		return fmt.Errorf("register analytics task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logrus.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	logrus.Info("scheduler stopped")
}

// RunNow executes one fetch cycle immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.fetchTask()
}

// Status reports the failure counters for operators.
func (s *Scheduler) Status() (total, consecutive int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalFailures, s.consecutiveFailures
}

func (s *Scheduler) fetchTask() {
	logrus.Info("running scheduled data fetch")
	n, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		s.handleFailure(err)
		return
	}

	s.mu.Lock()
	s.consecutiveFailures = 0
	s.mu.Unlock()
	logrus.Infof("data fetch completed, %d observations stored", n)

	// Keep the analytics table fresh after every successful collection.
	s.Reporter.RefreshAll(time.Now().UTC())
}

func (s *Scheduler) analyticsTask() {
	logrus.Info("running scheduled analytics refresh")
	s.Reporter.RefreshAll(time.Now().UTC())
}

func (s *Scheduler) handleFailure(err error) {
	s.mu.Lock()
	s.consecutiveFailures++
	s.totalFailures++
	consecutive := s.consecutiveFailures
	if consecutive >= s.cfg.MaxConsecutive {
		// Reset so a long outage doesn't alarm on every tick.
		s.consecutiveFailures = 0
	}
	s.mu.Unlock()

	logrus.Warnf("data fetch failed (consecutive: %d): %v", consecutive, err)
	if consecutive >= s.cfg.MaxConsecutive {
		logrus.Errorf("%d consecutive fetch failures, check API status or network connectivity", consecutive)
	}
}
