package store

import (
	"context"
	"sync"
	"time"

	"dashsync/internal/models"
)

// MemoryStore keeps hourly counters in process memory.
type MemoryStore struct {
	window time.Duration

	mu     sync.Mutex
	hits   map[time.Time]int64
	total  int64
	closed bool
}

// NewMemoryStore returns an empty store aggregating over window.
func NewMemoryStore(window time.Duration) *MemoryStore {
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryStore{window: window, hits: make(map[time.Time]int64)}
}

// Record counts one hit at the given time.
func (m *MemoryStore) Record(_ context.Context, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	slot := at.UTC().Truncate(time.Hour)
	m.hits[slot]++
	m.total++
	cutoff := slot.Add(-2 * m.window)
	for ts := range m.hits {
		if ts.Before(cutoff) {
			delete(m.hits, ts)
		}
	}
	return nil
}

// Stats aggregates the window ending at now.
func (m *MemoryStore) Stats(_ context.Context, now time.Time) (*models.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	ts := slots(now, m.window)
	counts := make([]int64, len(ts))
	for i, t := range ts {
		counts[i] = m.hits[t]
	}
	total := m.total
	return &models.DashboardStats{HourlyData: bucketize(ts, counts), WebhookCount: &total}, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
