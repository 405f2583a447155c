package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler wraps a time.Ticker to execute a maintenance job at a fixed
// interval. It supports graceful shutdown via outer context cancellation or
// an explicit Shutdown() call; each run inherits the parent context.
//
// Jobs should be idempotent and fast; the scheduler does not impose a per-run
// timeout. Wrap the job in context.WithTimeout at the call site if needed.
type Scheduler struct {
	interval time.Duration
	fn       func(ctx context.Context)
	log      *zap.SugaredLogger
	stopCh   chan struct{}
}

// New constructs a Scheduler. Intervals below one second are clamped to one
// second to avoid busy-loops.
func New(interval time.Duration, fn func(ctx context.Context), logger *zap.SugaredLogger) *Scheduler {
	if interval < time.Second {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scheduler{
		interval: interval,
		fn:       fn,
		log:      logger,
		stopCh:   make(chan struct{}),
	}
}

// Run starts the ticker loop, executing the job once immediately. It blocks
// until the parent context is done or Shutdown() is called; run it in its own
// goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Infow("scheduler started", "interval", s.interval.String())

	s.fn(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler: parent context cancelled")
			return
		case <-s.stopCh:
			s.log.Info("scheduler: shutdown signal received")
			return
		case <-ticker.C:
			s.fn(ctx)
		}
	}
}

// Shutdown signals the Run loop to exit as soon as possible. Idempotent.
func (s *Scheduler) Shutdown() {
	select {
	case <-s.stopCh:
		// already closed
	default:
		close(s.stopCh)
	}
}
