package dashboard

import (
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"dashsync/internal/models"
	"dashsync/internal/page"
)

// DefaultHighlight is how long auto-update elements keep the highlight class.
const DefaultHighlight = 300 * time.Millisecond

// Document is the part of the page the statistics updater writes to.
type Document interface {
	SetText(id, text string) bool
	AutoUpdateIDs() []string
	AddClass(id, class string)
	RemoveClass(id, class string)
}

// StatisticsUpdater writes counters into labelled elements and pulses every
// auto-update element after each successful refresh.
type StatisticsUpdater struct {
	doc   Document
	clock clockwork.Clock
	pulse time.Duration

	mu     sync.Mutex
	timers map[clockwork.Timer]struct{}
}

// NewStatisticsUpdater returns an updater writing to doc.
func NewStatisticsUpdater(doc Document, clock clockwork.Clock, pulse time.Duration) *StatisticsUpdater {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if pulse <= 0 {
		pulse = DefaultHighlight
	}
	return &StatisticsUpdater{doc: doc, clock: clock, pulse: pulse, timers: make(map[clockwork.Timer]struct{})}
}

// Update applies one stats payload.
func (u *StatisticsUpdater) Update(stats *models.DashboardStats) {
	if u == nil || u.doc == nil || stats == nil {
		return
	}
	if stats.WebhookCount != nil {
		u.doc.SetText(page.WebhookCountID, strconv.FormatInt(*stats.WebhookCount, 10))
	}
	for _, id := range u.doc.AutoUpdateIDs() {
		u.doc.AddClass(id, page.HighlightClass)
		u.schedule(id)
	}
}

func (u *StatisticsUpdater) schedule(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var t clockwork.Timer
	t = u.clock.AfterFunc(u.pulse, func() {
		u.doc.RemoveClass(id, page.HighlightClass)
		u.mu.Lock()
		delete(u.timers, t)
		u.mu.Unlock()
	})
	u.timers[t] = struct{}{}
}

// Close cancels pending highlight removals and clears the highlight class.
func (u *StatisticsUpdater) Close() {
	if u == nil {
		return
	}
	u.mu.Lock()
	for t := range u.timers {
		t.Stop()
		delete(u.timers, t)
	}
	u.mu.Unlock()
	if u.doc == nil {
		return
	}
	for _, id := range u.doc.AutoUpdateIDs() {
		u.doc.RemoveClass(id, page.HighlightClass)
	}
}
