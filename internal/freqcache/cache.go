// Package freqcache keeps word-frequency results in Redis so repeated runs
// over the same text skip recounting. Entries are keyed by a hash of the
// content and the case mode; the file path plays no part.
package freqcache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/textkit/internal/textfile"
	"github.com/Adithya-Monish-Kumar-K/textkit/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/textkit/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/textkit/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "freq:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

var _ Store = (*pkgredis.Client)(nil)

type Cache struct {
	store    Store
	ttl      time.Duration
	metrics  *metrics.Metrics
	group    singleflight.Group
	logger   *slog.Logger
	hits     atomic.Int64
	misses   atomic.Int64
	failures atomic.Int64
}

// New returns a Cache over store. m may be nil.
func New(store Store, cfg config.RedisConfig, m *metrics.Metrics) *Cache {
	return &Cache{
		store:   store,
		ttl:     cfg.CacheTTL,
		metrics: m,
		logger:  slog.Default().With("component", "freq-cache"),
	}
}

// Get looks up the frequencies for content. Store failures and undecodable
// entries are logged and reported as a miss.
func (c *Cache) Get(ctx context.Context, content string, caseSensitive bool) (textfile.Frequencies, bool) {
	key := buildKey(content, caseSensitive)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
			c.recordFailure()
		}
		c.recordMiss()
		return nil, false
	}
	var freq textfile.Frequencies
	if err := json.Unmarshal([]byte(data), &freq); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.recordFailure()
		c.recordMiss()
		return nil, false
	}
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.FrequencyCacheHits.Inc()
	}
	c.logger.Debug("cache hit", "key", key, "distinct", len(freq))
	return freq, true
}

// Set stores freq for content. Failures are logged, never returned.
func (c *Cache) Set(ctx context.Context, content string, caseSensitive bool, freq textfile.Frequencies) {
	key := buildKey(content, caseSensitive)
	data, err := json.Marshal(freq)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		c.recordFailure()
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
		c.recordFailure()
	}
}

// GetOrCompute returns cached frequencies for content or calls computeFn and
// stores its result. Concurrent callers for the same key share one
// computation. The bool reports whether the value came from the cache.
func (c *Cache) GetOrCompute(
	ctx context.Context,
	content string,
	caseSensitive bool,
	computeFn func() (textfile.Frequencies, error),
) (textfile.Frequencies, bool, error) {
	if freq, ok := c.Get(ctx, content, caseSensitive); ok {
		return freq, true, nil
	}
	key := buildKey(content, caseSensitive)
	val, err, _ := c.group.Do(key, func() (any, error) {
		freq, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, content, caseSensitive, freq)
		return freq, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(textfile.Frequencies), false, nil
}

// Invalidate deletes every cached frequency result and returns how many
// entries were removed.
func (c *Cache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating frequency cache: %w", err)
	}
	c.logger.Info("cache invalidate", "keys_deleted", deleted)
	return deleted, nil
}

// Stats returns the hit, miss and failure counts seen by this instance.
func (c *Cache) Stats() (hits, misses, failures int64) {
	return c.hits.Load(), c.misses.Load(), c.failures.Load()
}

func (c *Cache) recordMiss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.FrequencyCacheMisses.Inc()
	}
}

func (c *Cache) recordFailure() {
	c.failures.Add(1)
	if c.metrics != nil {
		c.metrics.FrequencyCacheFailures.Inc()
	}
}

func buildKey(content string, caseSensitive bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "case=%t\x00", caseSensitive)
	h.Write([]byte(content))
	return fmt.Sprintf("%s%x", keyPrefix, h.Sum(nil)[:16])
}
