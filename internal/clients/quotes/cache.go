package quotes

import (
	"context"
	"encoding/json"
	"time"

	"folio-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "quote:"

// Cache is a Redis-backed quote cache keyed by symbol. A short TTL keeps the
// dashboard responsive across refresh clicks without hammering the gateway.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps a Redis client with the configured TTL.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(symbol string) string {
	return cacheKeyPrefix + symbol
}

// GetBulk returns the cached quotes for symbols and the list of symbols that
// missed. Redis errors degrade to a full miss; the cache is best-effort.
func (c *Cache) GetBulk(ctx context.Context, symbols []string) (map[string]domain.Quote, []string) {
	if len(symbols) == 0 {
		return map[string]domain.Quote{}, nil
	}
	keys := make([]string, len(symbols))
	for i, s := range symbols {
		keys[i] = cacheKey(s)
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return map[string]domain.Quote{}, symbols
	}

	hits := make(map[string]domain.Quote)
	var missed []string
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			missed = append(missed, symbols[i])
			continue
		}
		var q domain.Quote
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			missed = append(missed, symbols[i])
			continue
		}
		hits[symbols[i]] = q
	}
	return hits, missed
}

// SetBulk stores quotes with the configured TTL. Failures are ignored.
func (c *Cache) SetBulk(ctx context.Context, quotes map[string]domain.Quote) {
	if len(quotes) == 0 {
		return
	}
	pipe := c.rdb.Pipeline()
	for symbol, q := range quotes {
		b, err := json.Marshal(q)
		if err != nil {
			continue
		}
		pipe.Set(ctx, cacheKey(symbol), b, c.ttl)
	}
	_, _ = pipe.Exec(ctx)
}

// Invalidate drops cached quotes for the given symbols.
func (c *Cache) Invalidate(ctx context.Context, symbols ...string) {
	if len(symbols) == 0 {
		return
	}
	keys := make([]string, len(symbols))
	for i, s := range symbols {
		keys[i] = cacheKey(s)
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}
