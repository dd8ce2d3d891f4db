// Command collect runs one collection pass: fetch auctions, store hourly prices, backfill item names.
// It is meant to be scheduled hourly (cron, systemd timer, Kubernetes CronJob).
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"auction_backend/internal/app/di"
	"auction_backend/internal/feature/auctions/domain"
	"auction_backend/internal/platform/db"
	"auction_backend/internal/platform/externalapi/battlenet"
	"auction_backend/internal/platform/logging"
	"auction_backend/internal/platform/metrics"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
	exitAuth   = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load() // .env is optional

	logger, closer := logging.New(logging.LoadConfig(), os.Stdout)
	defer func() { _ = closer.Close() }()
	logger = logger.With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	app, err := di.LoadAppConfig()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return exitConfig
	}
	apiCfg, err := battlenet.LoadConfig()
	if err != nil {
		logger.Error("failed to load credentials", "error", err)
		return exitConfig
	}
	stores, err := di.NewStoreOpener(db.LoadConfigFromEnv(), logger)
	if err != nil {
		logger.Error("invalid database configuration", "error", err)
		return exitConfig
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, app.RunTimeout)
	defer cancel()

	rdb := di.NewRedis(ctx, logger)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	api := di.NewBattlenetClient(apiCfg, app.UserAgent, logger)
	uc := di.NewCollectUsecase(app, api, apiCfg.RealmIDs, stores, rdb, logger)

	logger.Info("run started", "region", apiCfg.Region, "realms", len(apiCfg.RealmIDs), "backfill_limit", app.BackfillLimit)
	report, err := uc.Run(ctx)
	if errors.Is(err, domain.ErrAuth) {
		return exitAuth
	}
	if err != nil {
		logger.Error("run failed", "error", err)
		return exitFailed
	}

	if app.PushgatewayURL != "" {
		m := metrics.NewRunMetrics()
		m.Observe(report, time.Now())
		host, _ := os.Hostname()
		// the run context may already be exhausted
		pushCtx, cancelPush := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelPush()
		if err := m.Push(pushCtx, nil, app.PushgatewayURL, "auction_collector", host); err != nil {
			logger.Warn("failed to push metrics", "error", err)
		}
	}
	return exitOK
}
