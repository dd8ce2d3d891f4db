// Command snapshot fetches the current auctions once and writes the cleaned listings to
// sample.<timestamp>.json without touching the database.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"auction_backend/internal/app/di"
	"auction_backend/internal/feature/auctions/adapters/snapshot"
	"auction_backend/internal/feature/auctions/usecase"
	"auction_backend/internal/platform/externalapi/battlenet"
	"auction_backend/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load() // .env is optional

	logger, closer := logging.New(logging.LoadConfig(), os.Stdout)
	defer func() { _ = closer.Close() }()
	slog.SetDefault(logger)

	// first argument overrides AUCTION_CONFIG
	if len(os.Args) == 2 {
		_ = os.Setenv("AUCTION_CONFIG", os.Args[1])
	}

	app, err := di.LoadAppConfig()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return 2
	}
	apiCfg, err := battlenet.LoadConfig()
	if err != nil {
		logger.Error("failed to load credentials", "error", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.RunTimeout)
	defer cancel()

	// no store or backfill: the snapshot only fetches and normalizes
	api := di.NewBattlenetClient(apiCfg, app.UserAgent, logger)
	uc := usecase.NewCollectUsecase(api, api, nil, nil, apiCfg.RealmIDs, 0, logger)

	points, err := uc.FetchCleanListings(ctx)
	if err != nil {
		logger.Error("snapshot failed", "error", err)
		return 1
	}

	path, err := snapshot.WriteFile(app.SnapshotDir, time.Now(), points)
	if err != nil {
		logger.Error("failed to write snapshot", "error", err)
		return 1
	}
	logger.Info("snapshot written", "path", path, "items", len(points))
	return 0
}
