// Package db opens the gorm connection used by the price-history store.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DefaultSQLitePath is the database file used when DB_PATH is not set.
	DefaultSQLitePath = "data/ah_database.db"
)

// retryInterval is the pause between connection attempts.
var retryInterval = 3 * time.Second

// Config holds database connection settings.
type Config struct {
	Driver   string // "sqlite" (default) or "postgres"
	Path     string // SQLite file
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
	Timeout  time.Duration // how long to keep retrying the first connection
}

// LoadConfigFromEnv はデータベース設定を環境変数から読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Driver:   os.Getenv("DB_DRIVER"),
		Path:     os.Getenv("DB_PATH"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
		Timeout:  60 * time.Second,
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.Path == "" {
		cfg.Path = DefaultSQLitePath
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	return cfg
}

// BuildDSN はドライバーに応じた接続文字列を生成します。SQLiteの場合はファイルパスです。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)
	}
	return cfg.Path
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は接続に成功するか timeout を過ぎるまで接続を繰り返します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	return ConnectWithRetryContext(context.Background(), dsn, timeout, opener)
}

// ConnectWithRetryContext は ConnectWithRetry と同じですが、ctx が終了した時点で待機をやめます。
func ConnectWithRetryContext(ctx context.Context, dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
		}
		slog.Warn("DB connect failed, retrying", "attempt", attempt, "error", err)

		timer := time.NewTimer(min(retryInterval, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("db connect canceled after %d attempts: %w", attempt, errors.Join(ctx.Err(), err))
		case <-timer.C:
		}
	}
}

// NewOpener returns the Opener for cfg.Driver.
func NewOpener(cfg Config) (Opener, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch cfg.Driver {
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) {
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("create database dir: %w", err)
				}
			}
			return gorm.Open(sqlite.Open(dsn), gcfg)
		}, nil
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Connector returns a function that opens a fresh, verified connection per call.
// Each store session owns the connection it receives.
func Connector(cfg Config) (func(ctx context.Context) (*gorm.DB, error), error) {
	opener, err := NewOpener(cfg)
	if err != nil {
		return nil, err
	}
	dsn := BuildDSN(cfg)
	return func(ctx context.Context) (*gorm.DB, error) {
		db, err := ConnectWithRetryContext(ctx, dsn, cfg.Timeout, opener)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
		}
		if cfg.Driver == DriverSQLite {
			// SQLite allows one writer; a single connection avoids "database is locked".
			sqlDB.SetMaxOpenConns(1)
		}
		return db, nil
	}, nil
}
