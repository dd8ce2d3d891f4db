package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"auction_backend/internal/feature/auctions/domain"
	"auction_backend/internal/feature/auctions/domain/entity"
	"auction_backend/internal/feature/auctions/usecase"
)

// gormStore は価格履歴とアイテムメタデータを保持するストアのセッションです。
// セッションを開いた時刻 now から週テーブル名・日付・時間を決定します。
type gormStore struct {
	db         *gorm.DB
	now        time.Time
	priceTable string
	logger     *slog.Logger
	closeFn    func() error
}

var _ usecase.Store = (*gormStore)(nil)

// NewStore はDB接続を所有しないセッションを作成します。Close は接続を閉じません。
func NewStore(db *gorm.DB, now time.Time, logger *slog.Logger) *gormStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &gormStore{
		db:         db,
		now:        now,
		priceTable: WeekTableName(now),
		logger:     logger,
	}
}

// PriceTable returns the weekly table this session writes to.
func (s *gormStore) PriceTable() string {
	return s.priceTable
}

// EnsureSchema は今週の価格テーブル、アイテムテーブル、カーソルテーブルを作成します。
// 既に存在する場合は何も変更しません。
func (s *gormStore) EnsureSchema(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.Table(s.priceTable).AutoMigrate(&PriceRecordModel{}); err != nil {
		return fmt.Errorf("migrate %s: %w", s.priceTable, err)
	}
	if err := db.AutoMigrate(&ItemModel{}, &BackfillCursorModel{}); err != nil {
		return fmt.Errorf("migrate metadata tables: %w", err)
	}
	return nil
}

// UpsertPricePoints は各アイテムについてメタデータ行を確保し、現在の時間の価格列だけを書き込みます。
// 行は (item_id, year, day_of_year) ごとに1行で、他の時間の列は上書きしません。
// 失敗したステートメントはログに出力してスキップし、バッチ全体は続行します。
func (s *gormStore) UpsertPricePoints(ctx context.Context, points map[int64]entity.PricePoint) usecase.UpsertResult {
	var res usecase.UpsertResult
	if len(points) == 0 {
		return res
	}

	ids := make([]int64, 0, len(points))
	for id := range points {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	year, day, column := s.now.Year(), s.now.YearDay(), hourColumn(s.now.Hour())

	// 全体を1トランザクションにまとめ、各ステートメントはセーブポイントで分離する
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if err := s.statement(tx, func(tx *gorm.DB) error {
				return tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "item_id"}},
					DoNothing: true,
				}).Create(&ItemModel{ItemID: id, ItemName: UndefinedItemName}).Error
			}); err != nil {
				res.Failed++
				s.logger.Error("failed to ensure item row", "item_id", id, "error", err)
				continue
			}
			res.Items++

			price, ok := points[id].Price()
			if !ok {
				s.logger.Debug("listing carries no price", "item_id", id)
				continue
			}
			if err := s.statement(tx, func(tx *gorm.DB) error {
				return tx.Table(s.priceTable).Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "item_id"}, {Name: "year"}, {Name: "day_of_year"}},
					DoUpdates: clause.AssignmentColumns([]string{column}),
				}).Create(map[string]any{
					"item_id":     id,
					"year":        year,
					"day_of_year": day,
					column:        price,
				}).Error
			}); err != nil {
				res.Failed++
				s.logger.Error("failed to upsert price", "item_id", id, "table", s.priceTable, "column", column, "error", err)
				continue
			}
			res.Prices++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("price batch was not committed", "table", s.priceTable, "error", err)
		return usecase.UpsertResult{Failed: len(points)}
	}

	s.logger.Info("price points stored",
		"table", s.priceTable,
		"column", column,
		"items", res.Items,
		"prices", res.Prices,
		"failed", res.Failed,
	)
	return res
}

// FindItemsMissingMetadata は名前が未解決のアイテムIDを最大 limit 件返します。
// 前回の補完位置（カーソル）より大きいIDから昇順に返し、足りない分は先頭から折り返して補います。
func (s *gormStore) FindItemsMissingMetadata(ctx context.Context, limit int) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}
	db := s.db.WithContext(ctx)

	cursor, err := s.backfillCursor(db)
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := db.Model(&ItemModel{}).
		Where("item_name = ? AND item_id > ?", UndefinedItemName, cursor).
		Order("item_id ASC").
		Limit(limit).
		Pluck("item_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("find pending items: %w", err)
	}

	if len(ids) < limit && cursor > 0 {
		var wrapped []int64
		if err := db.Model(&ItemModel{}).
			Where("item_name = ? AND item_id <= ?", UndefinedItemName, cursor).
			Order("item_id ASC").
			Limit(limit-len(ids)).
			Pluck("item_id", &wrapped).Error; err != nil {
			return nil, fmt.Errorf("find pending items after wrap: %w", err)
		}
		ids = append(ids, wrapped...)
	}
	return ids, nil
}

// UpdateItemMetadata は未解決アイテムの名前と品質を上書きします。
func (s *gormStore) UpdateItemMetadata(ctx context.Context, item entity.ItemMetadata) error {
	var quality *string
	if item.Quality != "" {
		q := item.Quality
		quality = &q
	}
	tx := s.db.WithContext(ctx).Model(&ItemModel{}).
		Where("item_id = ?", item.ItemID).
		Updates(map[string]any{"item_name": item.Name, "quality": quality})
	if tx.Error != nil {
		return fmt.Errorf("%w: update item %d: %v", domain.ErrStatement, item.ItemID, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: item %d not found", domain.ErrStatement, item.ItemID)
	}
	return nil
}

// SaveBackfillCursor records itemID as the last item the backfill processed.
func (s *gormStore) SaveBackfillCursor(ctx context.Context, itemID int64) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_item_id", "updated_at"}),
	}).Create(&BackfillCursorModel{Name: metadataCursorName, LastItemID: itemID}).Error
	if err != nil {
		return fmt.Errorf("%w: save backfill cursor: %v", domain.ErrStatement, err)
	}
	return nil
}

// CountItemsMissingMetadata returns the size of the backfill backlog.
func (s *gormStore) CountItemsMissingMetadata(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&ItemModel{}).
		Where("item_name = ?", UndefinedItemName).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count pending items: %w", err)
	}
	return n, nil
}

// Close releases the connection when the session owns it.
func (s *gormStore) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

func (s *gormStore) backfillCursor(db *gorm.DB) (int64, error) {
	var c BackfillCursorModel
	err := db.Where("name = ?", metadataCursorName).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read backfill cursor: %w", err)
	}
	return c.LastItemID, nil
}

// statement runs fn under a savepoint so a failure only discards that statement.
func (s *gormStore) statement(tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if err := tx.Transaction(fn); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStatement, err)
	}
	return nil
}
