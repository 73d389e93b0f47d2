// Package poller owns the recurring refresh timer of the dashboard.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"dashsync/internal/models"
)

// DefaultInterval is the time between two scheduler ticks.
const DefaultInterval = 30 * time.Second

// Fetcher retrieves the latest stats.
type Fetcher interface {
	Fetch(ctx context.Context) (*models.DashboardStats, error)
}

// ApplyFunc receives every successfully fetched payload.
type ApplyFunc func(*models.DashboardStats)

// Scheduler holds at most one live ticker. Each tick starts an asynchronous
// fetch; stopping the scheduler prevents future ticks but lets fetches that
// are already in flight apply their result.
type Scheduler struct {
	clock    clockwork.Clock
	interval time.Duration
	fetcher  Fetcher
	apply    ApplyFunc
	log      logrus.FieldLogger

	mu     sync.Mutex
	ticker clockwork.Ticker
	stop   chan struct{}
	closed bool

	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
	loops    sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithInterval sets the tick interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger used for refresh failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a stopped scheduler.
func New(fetcher Fetcher, apply ApplyFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    clockwork.NewRealClock(),
		interval: DefaultInterval,
		fetcher:  fetcher,
		apply:    apply,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "poller")
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Start begins ticking. It is a no-op returning false when the scheduler is
// already running or has been closed.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.ticker != nil {
		return false
	}
	t := s.clock.NewTicker(s.interval)
	stop := make(chan struct{})
	s.ticker = t
	s.stop = stop
	s.loops.Add(1)
	go s.loop(t, stop)
	s.log.WithField("interval", s.interval).Debug("auto-refresh started")
	return true
}

// Stop cancels the ticker. Calling Stop on a stopped scheduler is a no-op
// returning false.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker == nil {
		return false
	}
	s.ticker.Stop()
	close(s.stop)
	s.ticker = nil
	s.stop = nil
	s.log.Debug("auto-refresh stopped")
	return true
}

// State reports whether the scheduler is ticking.
func (s *Scheduler) State() models.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker != nil {
		return models.SchedulerRunning
	}
	return models.SchedulerStopped
}

// Running is shorthand for State() == SchedulerRunning.
func (s *Scheduler) Running() bool {
	return s.State() == models.SchedulerRunning
}

// RefreshNow issues one out-of-band fetch independent of the ticker.
func (s *Scheduler) RefreshNow() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.inflight.Add(1)
	s.mu.Unlock()
	go func() {
		defer s.inflight.Done()
		s.refresh(s.ctx)
	}()
}

// Close stops the scheduler, cancels in-flight fetches and waits for every
// goroutine it started. A closed scheduler cannot be restarted.
func (s *Scheduler) Close() {
	s.Stop()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.loops.Wait()
	s.inflight.Wait()
}

func (s *Scheduler) loop(t clockwork.Ticker, stop <-chan struct{}) {
	defer s.loops.Done()
	for {
		select {
		case <-t.Chan():
			select {
			case <-stop:
				return
			default:
			}
			s.RefreshNow()
		case <-stop:
			return
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	stats, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Failed to refresh dashboard data")
		return
	}
	if stats == nil || s.apply == nil {
		return
	}
	s.apply(stats)
}
