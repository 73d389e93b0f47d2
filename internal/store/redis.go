package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"dashsync/internal/models"
)

const (
	hitKeyPrefix = "dashsync:hits:"
	totalKey     = "dashsync:webhooks"
	slotLayout   = "2006010215"
)

// RedisStore keeps one counter per hour slot in Redis, expiring with the
// window.
type RedisStore struct {
	rdb    *redis.Client
	window time.Duration
}

// NewRedisStore connects to url (redis://...) and checks the connection.
func NewRedisStore(ctx context.Context, url string, window time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return NewRedisStoreFromClient(rdb, window), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(rdb *redis.Client, window time.Duration) *RedisStore {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisStore{rdb: rdb, window: window}
}

func hitKey(slot time.Time) string {
	return hitKeyPrefix + slot.UTC().Format(slotLayout)
}

// Record counts one hit at the given time.
func (r *RedisStore) Record(ctx context.Context, at time.Time) error {
	key := hitKey(at.UTC().Truncate(time.Hour))
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, r.window+time.Hour)
		pipe.Incr(ctx, totalKey)
		return nil
	})
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	return err
}

// Stats aggregates the window ending at now.
func (r *RedisStore) Stats(ctx context.Context, now time.Time) (*models.DashboardStats, error) {
	ts := slots(now, r.window)
	keys := make([]string, len(ts))
	for i, t := range ts {
		keys[i] = hitKey(t)
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		if errors.Is(err, redis.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("read hourly counters: %w", err)
	}
	counts := make([]int64, len(ts))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			counts[i] = n
		}
	}
	total, err := r.rdb.Get(ctx, totalKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read webhook count: %w", err)
	}
	return &models.DashboardStats{HourlyData: bucketize(ts, counts), WebhookCount: &total}, nil
}

// Close releases the client.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
