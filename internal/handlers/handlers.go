// Package handlers exposes the dashboard over HTTP: the bundled stats
// backend, chart images, the page snapshot, notifications, clipboard,
// health and version endpoints.
package handlers

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"dashsync/internal/charts"
	"dashsync/internal/models"
	"dashsync/internal/page"
	"dashsync/internal/render"
	"dashsync/internal/store"
)

// PageView is the read side of the page model.
type PageView interface {
	Snapshot() page.Snapshot
	Frame(name string) (charts.Frame, bool)
}

// Notifier shows and dismisses alerts.
type Notifier interface {
	Show(message string, kind models.NotificationKind) models.Notification
	Dismiss(id string) bool
	Pending() int
}

// ClientCounter reports connected websocket clients.
type ClientCounter interface {
	GetClientCount() int
}

// Copier puts text on the clipboard.
type Copier interface {
	Copy(ctx context.Context, text string) error
}

// Status reports synchronizer state for /healthz.
type Status interface {
	State() models.SchedulerState
	LastApplied() time.Time
}

// Deps collects everything the handlers need. Nil fields disable the
// corresponding endpoints (they answer 503).
type Deps struct {
	Store     store.Store
	Page      PageView
	Notifier  Notifier
	Clipboard Copier
	Status    Status
	Clients   ClientCounter
	Renderer  render.SVG
	Clock     clockwork.Clock
	Logger    logrus.FieldLogger
}

// DashboardHandlers serves the HTTP API.
type DashboardHandlers struct {
	store     store.Store
	page      PageView
	notifier  Notifier
	clipboard Copier
	status    Status
	clients   ClientCounter
	renderer  render.SVG
	clock     clockwork.Clock
	started   time.Time
	log       logrus.FieldLogger
}

// NewDashboardHandlers builds the handler set.
func NewDashboardHandlers(d Deps) *DashboardHandlers {
	clock := d.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	log := d.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DashboardHandlers{
		store:     d.Store,
		page:      d.Page,
		notifier:  d.Notifier,
		clipboard: d.Clipboard,
		status:    d.Status,
		clients:   d.Clients,
		renderer:  d.Renderer,
		clock:     clock,
		started:   clock.Now(),
		log:       log.WithField("component", "http"),
	}
}
