package markdown

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultCacheTTL = 24 * time.Hour

// CachedRenderer keeps rendered output in redis. Callers pick keys that
// change whenever the source does, so entries never need invalidating.
// Cache failures are logged and fall back to rendering.
type CachedRenderer struct {
	next   *Renderer
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *zap.SugaredLogger
}

func NewCachedRenderer(next *Renderer, rdb redis.UniversalClient, ttl time.Duration, logger *zap.SugaredLogger) *CachedRenderer {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &CachedRenderer{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		prefix: "markdown:",
		logger: logger,
	}
}

func (c *CachedRenderer) Render(ctx context.Context, key, source string) (*Rendered, error) {
	if key == "" {
		return c.next.Render(ctx, key, source)
	}

	cacheKey := c.prefix + key
	raw, err := c.rdb.Get(ctx, cacheKey).Bytes()
	switch {
	case err == nil:
		var out Rendered
		if err := json.Unmarshal(raw, &out); err == nil {
			return &out, nil
		}
		c.logger.Warnw("discarding corrupt render cache entry", "key", cacheKey)
	case !errors.Is(err, redis.Nil):
		c.logger.Warnw("render cache get failed", "key", cacheKey, "error", err)
	}

	out, err := c.next.Render(ctx, key, source)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode rendered markdown: %w", err)
	}
	if err := c.rdb.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Warnw("render cache set failed", "key", cacheKey, "error", err)
	}

	return out, nil
}
