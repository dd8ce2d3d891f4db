// Package cache provides caching decorators for the auction pipeline ports.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"auction_backend/internal/feature/auctions/domain/entity"
	"auction_backend/internal/feature/auctions/usecase"
)

// DefaultItemTTL keeps resolved item metadata for a week; item names are static data.
const DefaultItemTTL = 7 * 24 * time.Hour

// cachedItem is the JSON value stored per item.
type cachedItem struct {
	Name    string `json:"name"`
	Quality string `json:"quality,omitempty"`
}

// CachingItemCatalog decorates an ItemCatalog with a Redis read-through cache.
// Only resolved metadata is cached so failed lookups are retried on the next backfill.
type CachingItemCatalog struct {
	inner     usecase.ItemCatalog
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	logger    *slog.Logger
}

var _ usecase.ItemCatalog = (*CachingItemCatalog)(nil)

// NewCachingItemCatalog decorates inner with Redis caching.
// If ttl is 0, it defaults to DefaultItemTTL. If namespace is empty, it uses "items".
func NewCachingItemCatalog(rdb *redis.Client, ttl time.Duration, inner usecase.ItemCatalog, namespace string, logger *slog.Logger) *CachingItemCatalog {
	if ttl <= 0 {
		ttl = DefaultItemTTL
	}
	if namespace == "" {
		namespace = "items"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingItemCatalog{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		logger:    logger,
	}
}

// FetchItemMetadata returns cached metadata when present and otherwise asks the inner catalog.
func (c *CachingItemCatalog) FetchItemMetadata(ctx context.Context, token entity.Token, itemID int64) entity.ItemMetadata {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FetchItemMetadata(ctx, token, itemID)
	}

	key := c.cacheKey(token.Region, itemID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var v cachedItem
		if err := json.Unmarshal(b, &v); err == nil && v.Name != "" {
			return entity.ItemMetadata{ItemID: itemID, Name: v.Name, Quality: v.Quality, Known: true}
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	} else if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("item cache read failed", "item_id", itemID, "error", err)
	}

	// 2) Fallback to the API
	item := c.inner.FetchItemMetadata(ctx, token, itemID)
	if !item.Known {
		return item
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(cachedItem{Name: item.Name, Quality: item.Quality}); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.logger.Warn("item cache write failed", "item_id", itemID, "error", err)
		}
	}
	return item
}

// cacheKey generates a cache key per region and item, e.g. "items:us:19019".
func (c *CachingItemCatalog) cacheKey(region string, itemID int64) string {
	return fmt.Sprintf("%s:%s:%d", c.namespace, safe(region), itemID)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
