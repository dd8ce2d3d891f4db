// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"auction_backend/internal/feature/auctions/adapters"
	"auction_backend/internal/feature/auctions/usecase"
	"auction_backend/internal/platform/cache"
	"auction_backend/internal/platform/db"
	"auction_backend/internal/platform/externalapi/battlenet"
	infrahttp "auction_backend/internal/platform/http"
	"auction_backend/internal/platform/http/handler"
	infraredis "auction_backend/internal/platform/redis"
	"auction_backend/internal/shared/ratelimiter"
)

// NewBattlenetClient creates a Battle.net client with a tuned HTTP client.
func NewBattlenetClient(cfg battlenet.Config, userAgent string, logger *slog.Logger) *battlenet.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, userAgent)
	return battlenet.NewClient(cfg, httpClient, logger)
}

// NewStoreOpener creates a StoreOpener for the configured driver.
func NewStoreOpener(cfg db.Config, logger *slog.Logger) (*adapters.StoreOpener, error) {
	connect, err := db.Connector(cfg)
	if err != nil {
		return nil, err
	}
	return adapters.NewStoreOpener(connect, nil, logger), nil
}

// NewRedis connects to Redis when it is configured.
// A nil client means the process runs without the item cache.
func NewRedis(ctx context.Context, logger *slog.Logger) *redis.Client {
	cfg := infraredis.LoadConfig()
	if !cfg.Enabled() {
		logger.Info("REDIS_HOST is not set. Running without item cache.")
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable. Running without item cache.", "error", err)
		return nil
	}
	return rdb
}

// NewItemCatalog wraps inner with the Redis cache. With a nil client lookups go straight to inner.
func NewItemCatalog(rdb *redis.Client, inner usecase.ItemCatalog, logger *slog.Logger) usecase.ItemCatalog {
	if rdb == nil {
		return inner
	}
	return cache.NewCachingItemCatalog(rdb, cache.DefaultItemTTL, inner, "items", logger)
}

// NewCollectUsecase wires the full pipeline.
func NewCollectUsecase(app AppConfig, api *battlenet.Client, realmIDs []int64, stores usecase.StoreOpener,
	rdb *redis.Client, logger *slog.Logger) *usecase.CollectUsecase {
	catalog := NewItemCatalog(rdb, api, logger)
	limiter := ratelimiter.NewRateLimiter(app.BackfillRate, 1)
	backfill := usecase.NewBackfillUsecase(stores, catalog, limiter, logger)
	return usecase.NewCollectUsecase(api, api, stores, backfill, realmIDs, app.BackfillLimit, logger)
}

// NewHealthChecks returns the dependency checks served on /healthz.
func NewHealthChecks(stores usecase.StoreOpener, rdb *redis.Client) map[string]handler.Check {
	checks := map[string]handler.Check{
		"store": func(ctx context.Context) error {
			s, err := stores.Open(ctx)
			if err != nil {
				return err
			}
			return s.Close()
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
