package service

import (
	"context"
	"fmt"
	"time"

	"execution-os/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Deduper is a Redis fast path in front of the database dedup check. A nil
// Deduper, or an unreachable Redis, lets every caller through.
type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	if rdb == nil {
		return nil
	}
	return &Deduper{rdb: rdb, ttl: ttl}
}

func dedupKey(userID, kind, subject string) string {
	return fmt.Sprintf("dedup:warning:%s:%s:%s", userID, kind, subject)
}

// AcquireOnce returns true the first time a key is seen within the TTL.
func (d *Deduper) AcquireOnce(ctx context.Context, userID, kind, subject string) bool {
	if d == nil {
		return true
	}
	key := dedupKey(userID, kind, subject)
	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		logger.Warn("dedup.redis_failed", "key", key, "err", err)
		return true
	}
	if !ok {
		logger.Debug("dedup.hit", "key", key)
	}
	return ok
}

// Release drops a key acquired for a write that did not happen.
func (d *Deduper) Release(ctx context.Context, userID, kind, subject string) {
	if d == nil {
		return
	}
	if err := d.rdb.Del(ctx, dedupKey(userID, kind, subject)).Err(); err != nil {
		logger.Warn("dedup.release_failed", "uid", userID, "kind", kind, "err", err)
	}
}
