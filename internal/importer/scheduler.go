package importer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval matches the lifetime of imported discounts.
const DefaultInterval = 15 * time.Second

// Runner is what the Scheduler triggers.
type Runner interface {
	Run(ctx context.Context) (Result, error)
}

// Scheduler runs a job once at start and then on every tick.
type Scheduler struct {
	job      Runner
	interval time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler returns a stopped scheduler.
func NewScheduler(job Runner, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		job:      job,
		interval: interval,
		logger:   logger.Named("scheduler"),
	}
}

// Start launches the loop. It is a no-op when already running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}

	s.logger.Info("starting import scheduler", zap.Duration("interval", s.interval))
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(ctx, s.stopChan, s.done)
}

// Stop ends the loop and waits for a running import to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stopChan, s.done
	s.stopChan, s.done = nil, nil
	s.mu.Unlock()

	if done == nil {
		return
	}
	close(stop)
	<-done
	s.logger.Info("import scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := time.Now()
	if _, err := s.job.Run(ctx); err != nil {
		s.logger.Error("import failed, retrying next tick", zap.Error(err))
		return
	}
	s.logger.Debug("import finished", zap.Duration("took", time.Since(start)))
}
