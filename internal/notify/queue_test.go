package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashsync/internal/models"
)

type memContainer struct {
	mu      sync.Mutex
	ensured int
	alerts  []models.Notification
}

func (c *memContainer) EnsureContainer() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensured++
	return c.ensured == 1
}

func (c *memContainer) AppendAlert(n models.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, n)
}

func (c *memContainer) RemoveAlert(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, a := range c.alerts {
		if a.ID == id {
			c.alerts = append(c.alerts[:i], c.alerts[i+1:]...)
			return true
		}
	}
	return false
}

func (c *memContainer) ids() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.alerts))
	for _, a := range c.alerts {
		out = append(out, a.ID)
	}
	return out
}

func newTestQueue(c Container, clock clockwork.Clock) *Queue {
	q := NewQueue(c, WithClock(clock))
	n := 0
	q.newID = func() string {
		n++
		return string(rune('a' + n - 1))
	}
	return q
}

func blockUntil(t *testing.T, clock *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, n))
}

func TestShowErrorRendersDangerAndExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := &memContainer{}
	q := newTestQueue(c, clock)

	n := q.Show("x", models.NotificationError)
	assert.Equal(t, "alert-danger", n.Class)
	assert.Equal(t, models.NotificationError, n.Kind)
	assert.Equal(t, clock.Now(), n.CreatedAt)
	assert.Equal(t, []string{n.ID}, c.ids())

	blockUntil(t, clock, 1)
	clock.Advance(DefaultTTL - time.Millisecond)
	assert.Equal(t, []string{n.ID}, c.ids())
	clock.Advance(time.Millisecond)
	assert.Eventually(t, func() bool { return len(c.ids()) == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, q.Pending())
}

func TestContainerCreatedLazilyOnce(t *testing.T) {
	c := &memContainer{}
	q := newTestQueue(c, clockwork.NewFakeClock())
	assert.Equal(t, 0, c.ensured)
	q.Show("one", models.NotificationInfo)
	q.Show("two", models.NotificationSuccess)
	assert.Equal(t, 1, c.ensured)
}

func TestExpiryRemovesExactlyItsOwnEntry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := &memContainer{}
	q := newTestQueue(c, clock)

	first := q.Show("first", models.NotificationInfo)
	blockUntil(t, clock, 1)
	clock.Advance(2 * time.Second)
	second := q.Show("second", models.NotificationWarning)
	blockUntil(t, clock, 2)

	// The user closes the first alert by hand; the first timer was cancelled
	// and the second alert must survive until its own deadline.
	require.True(t, q.Dismiss(first.ID))
	clock.Advance(3 * time.Second)
	assert.Equal(t, []string{second.ID}, c.ids())

	clock.Advance(2 * time.Second)
	assert.Eventually(t, func() bool { return len(c.ids()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestOlderAlertExpiresFirstUnderBursts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := &memContainer{}
	q := newTestQueue(c, clock)

	a := q.Show("a", models.NotificationInfo)
	clock.Advance(time.Second)
	b := q.Show("b", models.NotificationInfo)
	clock.Advance(time.Second)
	cc := q.Show("c", models.NotificationInfo)
	blockUntil(t, clock, 3)

	clock.Advance(3 * time.Second)
	assert.Eventually(t, func() bool {
		ids := c.ids()
		return len(ids) == 2 && ids[0] == b.ID && ids[1] == cc.ID
	}, time.Second, 5*time.Millisecond)
	assert.NotContains(t, c.ids(), a.ID)
}

func TestDismissUnknownAndClose(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := &memContainer{}
	q := newTestQueue(c, clock)
	assert.False(t, q.Dismiss("missing"))

	n := q.Show("stay", "")
	assert.Equal(t, "alert-info", n.Class)
	q.Close()
	assert.Equal(t, 0, q.Pending())
	clock.Advance(DefaultTTL * 2)
	assert.Equal(t, []string{n.ID}, c.ids())
}
