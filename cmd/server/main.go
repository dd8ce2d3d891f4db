// Command server exposes the operational status endpoints of the collector.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"auction_backend/internal/app/di"
	"auction_backend/internal/app/router"
	auctionshandler "auction_backend/internal/feature/auctions/transport/handler"
	"auction_backend/internal/feature/auctions/usecase"
	"auction_backend/internal/platform/db"
	"auction_backend/internal/platform/logging"
)

func main() {
	_ = godotenv.Load() // .env is optional

	logger, closer := logging.New(logging.LoadConfig(), os.Stdout)
	defer func() { _ = closer.Close() }()
	slog.SetDefault(logger)

	app, err := di.LoadAppConfig()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	// db
	stores, err := di.NewStoreOpener(db.LoadConfigFromEnv(), logger)
	if err != nil {
		logger.Error("invalid database configuration", "error", err)
		os.Exit(2)
	}

	// Redis
	rdb := di.NewRedis(context.Background(), logger)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Usecase / Handler
	statusUC := usecase.NewStatusUsecase(stores)
	backfillH := auctionshandler.NewBackfillHandler(statusUC)

	r := router.NewRouter(backfillH, di.NewHealthChecks(stores, rdb))
	logger.Info("status server listening", "addr", app.ServerAddr)
	if err := r.Run(app.ServerAddr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
