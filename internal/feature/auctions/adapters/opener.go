package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"auction_backend/internal/feature/auctions/domain"
	"auction_backend/internal/feature/auctions/usecase"
)

// ConnectFunc opens a new database connection.
type ConnectFunc func(ctx context.Context) (*gorm.DB, error)

// StoreOpener は Open のたびに新しい接続を張り、その接続を所有するセッションを返します。
type StoreOpener struct {
	connect ConnectFunc
	clock   func() time.Time
	logger  *slog.Logger
}

var _ usecase.StoreOpener = (*StoreOpener)(nil)

// NewStoreOpener は StoreOpener を作成します。clock が nil の場合は time.Now を使用します。
func NewStoreOpener(connect ConnectFunc, clock func() time.Time, logger *slog.Logger) *StoreOpener {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreOpener{connect: connect, clock: clock, logger: logger}
}

// Open connects and returns a session whose Close releases the connection.
// Connection failures are reported as domain.ErrStoreConnect.
func (o *StoreOpener) Open(ctx context.Context) (usecase.Store, error) {
	db, err := o.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreConnect, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreConnect, err)
	}

	s := NewStore(db, o.clock(), o.logger)
	s.closeFn = sqlDB.Close
	o.logger.Debug("store session opened", "table", s.priceTable)
	return s, nil
}
