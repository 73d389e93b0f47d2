// Package notify shows short-lived alerts in the page's notification
// container.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"dashsync/internal/models"
)

// DefaultTTL is how long an alert stays on screen.
const DefaultTTL = 5 * time.Second

// Container is where alerts are rendered.
type Container interface {
	EnsureContainer() bool
	AppendAlert(models.Notification)
	RemoveAlert(id string) bool
}

// Queue appends alerts and removes each one exactly TTL after it was shown.
// Every alert carries its own token so expiry never removes a different,
// newer alert.
type Queue struct {
	container Container
	clock     clockwork.Clock
	ttl       time.Duration
	newID     func() string

	mu      sync.Mutex
	created bool
	timers  map[string]clockwork.Timer
}

// Option configures a Queue.
type Option func(*Queue)

// WithClock replaces the real clock.
func WithClock(c clockwork.Clock) Option {
	return func(q *Queue) { q.clock = c }
}

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.ttl = d
		}
	}
}

// NewQueue returns a queue rendering into c.
func NewQueue(c Container, opts ...Option) *Queue {
	q := &Queue{
		container: c,
		clock:     clockwork.NewRealClock(),
		ttl:       DefaultTTL,
		newID:     func() string { return uuid.NewString() },
		timers:    make(map[string]clockwork.Timer),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Show renders message with the given kind and schedules its removal.
func (q *Queue) Show(message string, kind models.NotificationKind) models.Notification {
	if kind == "" {
		kind = models.NotificationInfo
	}
	n := models.Notification{
		ID:        q.newID(),
		Message:   message,
		Kind:      kind,
		Class:     "alert-" + kind.AlertClass(),
		CreatedAt: q.clock.Now(),
	}

	q.mu.Lock()
	if !q.created {
		q.container.EnsureContainer()
		q.created = true
	}
	q.mu.Unlock()

	q.container.AppendAlert(n)

	id := n.ID
	q.mu.Lock()
	q.timers[id] = q.clock.AfterFunc(q.ttl, func() { q.expire(id) })
	q.mu.Unlock()
	return n
}

// Dismiss removes an alert before its expiry. It returns false when the
// alert is already gone.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()
	return q.container.RemoveAlert(id)
}

// Pending returns how many alerts still wait for expiry.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

// Close cancels every pending expiry. Alerts already shown stay visible.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
}

func (q *Queue) expire(id string) {
	q.mu.Lock()
	delete(q.timers, id)
	q.mu.Unlock()
	q.container.RemoveAlert(id)
}
