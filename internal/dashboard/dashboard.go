// Package dashboard wires the chart presenters, the statistics updater, the
// polling scheduler and the lifecycle controller into one object with an
// explicit construction and teardown.
package dashboard

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"dashsync/internal/charts"
	"dashsync/internal/lifecycle"
	"dashsync/internal/models"
	"dashsync/internal/poller"
)

// Options configures a Dashboard.
type Options struct {
	Host       charts.Host
	Document   Document
	Fetcher    poller.Fetcher
	DeviceSeed models.DeviceShare
	Clock      clockwork.Clock
	Interval   time.Duration
	Highlight  time.Duration
	Logger     logrus.FieldLogger
}

// Dashboard owns all mutable state of one live dashboard.
type Dashboard struct {
	Activity  *charts.ActivityPresenter
	Device    *charts.DevicePresenter
	Scheduler *poller.Scheduler
	Lifecycle *lifecycle.Controller

	statistics *StatisticsUpdater
	log        logrus.FieldLogger

	applyMu     sync.Mutex
	lastApplied time.Time
	clock       clockwork.Clock
	closeOnce   sync.Once
}

// New initializes both charts and builds a stopped scheduler.
func New(opts Options) *Dashboard {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	d := &Dashboard{
		Activity:   charts.NewActivityPresenter(opts.Host, charts.ActivityMount, log),
		Device:     charts.NewDevicePresenter(opts.Host, charts.DeviceMount, opts.DeviceSeed, log),
		statistics: NewStatisticsUpdater(opts.Document, clock, opts.Highlight),
		log:        log.WithField("component", "dashboard"),
		clock:      clock,
	}
	d.Scheduler = poller.New(opts.Fetcher, d.Apply,
		poller.WithClock(clock),
		poller.WithInterval(opts.Interval),
		poller.WithLogger(log),
	)
	d.Lifecycle = lifecycle.NewController(d.Scheduler, log)
	return d
}

// Start begins auto-refresh.
func (d *Dashboard) Start() {
	d.Scheduler.Start()
}

// Apply pushes one payload into the activity chart and the statistics
// labels. Concurrent payloads are applied one at a time; the last one wins.
func (d *Dashboard) Apply(stats *models.DashboardStats) {
	if stats == nil {
		return
	}
	d.applyMu.Lock()
	defer d.applyMu.Unlock()
	d.Activity.Update(stats.HourlyData)
	d.statistics.Update(stats)
	d.lastApplied = d.clock.Now()
}

// LastApplied returns when a payload was last applied; zero if never.
func (d *Dashboard) LastApplied() time.Time {
	d.applyMu.Lock()
	defer d.applyMu.Unlock()
	return d.lastApplied
}

// State reports whether auto-refresh is running.
func (d *Dashboard) State() models.SchedulerState {
	return d.Scheduler.State()
}

// Close stops polling and waits for in-flight refreshes.
func (d *Dashboard) Close() {
	d.closeOnce.Do(func() {
		d.Scheduler.Close()
		d.statistics.Close()
		d.log.Debug("dashboard closed")
	})
}
