package breach

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// cache keeps recent range-query outcomes keyed by the full SHA-1 digest so
// repeat checks of the same password skip the outbound call. Values are the
// breach count (-1 for a definitive clear); unknown results are never cached.
// Redis failures fail open: we just go to the network.
type cache struct {
	rdb     *redis.Client
	ttl     time.Duration
	shortTO time.Duration
}

const cacheKeyPrefix = "bc:"

func newCache(rdb *redis.Client) *cache {
	if rdb == nil || os.Getenv("BREACH_DISABLE_CACHE") == "1" {
		return nil
	}
	ttl := time.Hour
	if v := os.Getenv("BREACH_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}
	return &cache{rdb: rdb, ttl: ttl, shortTO: 150 * time.Millisecond}
}

func (c *cache) get(ctx context.Context, digest string) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()

	val, err := c.rdb.Get(ctx, cacheKeyPrefix+digest).Result()
	if err != nil {
		return Result{}, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return Result{}, false
	}
	if n < 0 {
		return Result{Status: StatusClear}, true
	}
	return Result{Status: StatusBreached, Count: n}, true
}

func (c *cache) put(ctx context.Context, digest string, r Result) {
	if c == nil || r.Status == StatusUnknown {
		return
	}
	val := "-1"
	if r.Status == StatusBreached {
		val = strconv.Itoa(r.Count)
	}
	ctx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()

	if err := c.rdb.Set(ctx, cacheKeyPrefix+digest, val, c.ttl).Err(); err != nil {
		log.Printf("[Breach] cache write failed: %v", err)
	}
}
