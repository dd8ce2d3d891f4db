package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestBuildDSN はドライバーごとの接続文字列が正しく生成されることを検証します。
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "postgres",
			cfg: Config{
				Driver:   DriverPostgres,
				User:     "testuser",
				Password: "testpass",
				Name:     "testdb",
				Host:     "localhost",
				Port:     "5432",
				SSLMode:  "disable",
			},
			want: "host=localhost user=testuser password=testpass dbname=testdb port=5432 sslmode=disable TimeZone=UTC",
		},
		{
			name: "sqlite uses the file path",
			cfg:  Config{Driver: DriverSQLite, Path: "data/ah_database.db", Host: "ignored"},
			want: "data/ah_database.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, BuildDSN(tt.cfg))
		})
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		assert.Equal(t, "test-dsn", dsn)
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attemptCount)
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel because this test takes time due to retry sleeps

	mockDB := &gorm.DB{}
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	// Use a timeout that allows for 2 retries (retry interval is 3 seconds)
	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attemptCount)
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	// Very short timeout - should fail quickly
	start := time.Now()
	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.GreaterOrEqual(t, attemptCount, 1)
	assert.Less(t, time.Since(start), 2*time.Second, "the last sleep is capped by the deadline")
}

// TestLoadConfigFromEnv は環境変数からデータベース設定が正しく読み込まれることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	// Note: Not running in parallel since we're modifying environment variables

	t.Run("defaults to sqlite", func(t *testing.T) {
		for _, k := range []string{"DB_DRIVER", "DB_PATH", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_HOST", "DB_PORT", "DB_SSLMODE"} {
			t.Setenv(k, "")
		}

		cfg := LoadConfigFromEnv()

		assert.Equal(t, DriverSQLite, cfg.Driver)
		assert.Equal(t, DefaultSQLitePath, cfg.Path)
		assert.Equal(t, "disable", cfg.SSLMode)
	})

	t.Run("postgres", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DB_USER", "envuser")
		t.Setenv("DB_PASSWORD", "envpass")
		t.Setenv("DB_NAME", "envdb")
		t.Setenv("DB_HOST", "envhost")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("DB_SSLMODE", "require")

		cfg := LoadConfigFromEnv()

		assert.Equal(t, DriverPostgres, cfg.Driver)
		assert.Equal(t, "envuser", cfg.User)
		assert.Equal(t, "envpass", cfg.Password)
		assert.Equal(t, "envdb", cfg.Name)
		assert.Equal(t, "envhost", cfg.Host)
		assert.Equal(t, "5433", cfg.Port)
		assert.Equal(t, "require", cfg.SSLMode)
	})
}

func TestNewOpener_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := NewOpener(Config{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

// TestConnector_SQLite はSQLiteファイルを作成し、接続ごとに新しいDBを返すことを検証します。
func TestConnector_SQLite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "ah_database.db")
	connect, err := Connector(Config{Driver: DriverSQLite, Path: path, Timeout: time.Second})
	require.NoError(t, err)

	first, err := connect(context.Background())
	require.NoError(t, err)
	second, err := connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, first.Exec("CREATE TABLE probe (id INTEGER)").Error)
	assert.True(t, second.Migrator().HasTable("probe"), "both connections share the file")

	for _, db := range []*gorm.DB{first, second} {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
		require.NoError(t, sqlDB.Close())
	}
}

// TestConnectWithRetryContext_Canceled はコンテキスト終了時に待機をやめることを検証します。
func TestConnectWithRetryContext_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := ConnectWithRetryContext(ctx, "test-dsn", time.Minute, func(dsn string) (*gorm.DB, error) {
		return nil, errors.New("connection refused")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
