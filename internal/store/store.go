// Package store records webhook hits and aggregates them into dashboard
// stats for the bundled stats endpoint.
package store

import (
	"context"
	"errors"
	"time"

	"dashsync/internal/models"
)

// DefaultWindow is the span of hours aggregated into hourly buckets.
const DefaultWindow = 24 * time.Hour

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store persists hits and reads them back as stats.
type Store interface {
	Record(ctx context.Context, at time.Time) error
	Stats(ctx context.Context, now time.Time) (*models.DashboardStats, error)
	Close() error
}

// slots returns the hour slots covered by window ending at now, oldest first.
func slots(now time.Time, window time.Duration) []time.Time {
	if window < time.Hour {
		window = time.Hour
	}
	n := int(window / time.Hour)
	last := now.UTC().Truncate(time.Hour)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = last.Add(-time.Duration(n-1-i) * time.Hour)
	}
	return out
}

// bucketize folds per-slot counts into one bucket per hour of day, in the
// order hours first appear. Slots that fall on the same hour of day are
// summed; hours without hits are omitted.
func bucketize(slotTimes []time.Time, counts []int64) []models.HourlyBucket {
	index := make(map[int]int, models.HoursPerDay)
	buckets := make([]models.HourlyBucket, 0, models.HoursPerDay)
	for i, ts := range slotTimes {
		if counts[i] <= 0 {
			continue
		}
		h := ts.Hour()
		if j, ok := index[h]; ok {
			buckets[j].Count += counts[i]
			continue
		}
		index[h] = len(buckets)
		buckets = append(buckets, models.HourlyBucket{Hour: models.Hour(h), Count: counts[i]})
	}
	return buckets
}
