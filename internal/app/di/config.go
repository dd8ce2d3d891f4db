package di

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"auction_backend/internal/feature/auctions/usecase"
)

// AppConfig holds the pipeline settings that are not owned by a single adapter.
type AppConfig struct {
	BackfillLimit  int
	BackfillRate   float64 // requests per second; <= 0 disables pacing
	RunTimeout     time.Duration
	PushgatewayURL string
	SnapshotDir    string
	ServerAddr     string
	UserAgent      string
}

// LoadAppConfig reads the pipeline settings from environment variables.
func LoadAppConfig() (AppConfig, error) {
	cfg := AppConfig{
		BackfillLimit:  usecase.DefaultBackfillLimit,
		BackfillRate:   20,
		RunTimeout:     30 * time.Minute,
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
		SnapshotDir:    envOr("SNAPSHOT_DIR", "."),
		ServerAddr:     envOr("SERVER_ADDR", ":8080"),
		UserAgent:      envOr("AUCTION_USER_AGENT", "auction-collector/1.0"),
	}

	if v := os.Getenv("BACKFILL_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return AppConfig{}, fmt.Errorf("BACKFILL_LIMIT: invalid value %q", v)
		}
		cfg.BackfillLimit = n
	}
	if v := os.Getenv("BACKFILL_RATE_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return AppConfig{}, fmt.Errorf("BACKFILL_RATE_PER_SECOND: %w", err)
		}
		cfg.BackfillRate = f
	}
	if v := os.Getenv("AUCTION_RUN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return AppConfig{}, fmt.Errorf("AUCTION_RUN_TIMEOUT: %w", err)
		}
		cfg.RunTimeout = d
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
