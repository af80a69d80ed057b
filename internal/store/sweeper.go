package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is how often expired sessions are purged.
const DefaultSweepInterval = 5 * time.Minute

// Sweepable is a store that can purge its expired entries.
type Sweepable interface {
	Sweep() int
}

// Sweeper periodically purges expired sessions from a memory store.
type Sweeper struct {
	target   Sweepable
	interval time.Duration
	logger   *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	started bool
	mu      sync.Mutex
}

// NewSweeper creates a Sweeper. A non-positive interval uses DefaultSweepInterval.
func NewSweeper(target Sweepable, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		target:   target,
		interval: interval,
		logger:   logger.With("component", "session.sweeper"),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run sweeps on every tick. Blocks until ctx is cancelled or Shutdown is
// called; after Shutdown it returns immediately, even if it had not started.
func (s *Sweeper) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("sweeper already started")
	}
	s.started = true
	s.mu.Unlock()

	defer close(s.done)

	select {
	case <-s.stop:
		return nil
	default:
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("session sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session sweeper stopping")
			return nil
		case <-s.stop:
			s.logger.Info("session sweeper stopping")
			return nil
		case <-ticker.C:
			if removed := s.target.Sweep(); removed > 0 {
				s.logger.Debug("expired sessions removed", "count", removed)
			}
		}
	}
}

// Shutdown stops the sweeper and waits for a running Run to return.
// It matches server.ShutdownFunc.
func (s *Sweeper) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return nil
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		s.logger.Warn("session sweeper shutdown timed out")
		return ctx.Err()
	}
}
