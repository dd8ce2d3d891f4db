package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"auction_backend/internal/feature/auctions/domain"
	"auction_backend/internal/feature/auctions/domain/entity"
	"auction_backend/internal/shared/ratelimiter"
)

// DefaultBackfillLimit は1回の実行で名前解決を試みるアイテム数の上限です。
// 毎時実行で1日2400件進むため、数千件の未解決アイテムも数日で収束します。
const DefaultBackfillLimit = 100

// BackfillReport summarizes one Reconcile call.
type BackfillReport struct {
	Requested  int   // pending items handed out by the store
	Resolved   int   // metadata written
	Unresolved int   // lookups that came back unknown; retried after the cursor wraps
	Failed     int   // store statements that failed
	Remaining  int64 // backlog after this call, -1 if it could not be counted
}

// BackfillUsecase はメタデータが未解決のアイテムを少しずつ補完するユースケースです。
type BackfillUsecase struct {
	stores      StoreOpener
	catalog     ItemCatalog
	rateLimiter ratelimiter.RateLimiterInterface
	logger      *slog.Logger
}

// NewBackfillUsecase は新しい BackfillUsecase を作成します。
func NewBackfillUsecase(stores StoreOpener, catalog ItemCatalog, rateLimiter ratelimiter.RateLimiterInterface, logger *slog.Logger) *BackfillUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackfillUsecase{stores: stores, catalog: catalog, rateLimiter: rateLimiter, logger: logger}
}

// Reconcile はストアのセッションを開き、未解決アイテムを最大 limit 件取得して
// 1件ずつメタデータを取得・更新します。処理した位置はカーソルとして保存されるため、
// 次回の実行は続きから再開します。セッションはどの経路でも必ず閉じられます。
func (bu *BackfillUsecase) Reconcile(ctx context.Context, token entity.Token, limit int) (BackfillReport, error) {
	report := BackfillReport{Remaining: -1}
	if limit <= 0 {
		limit = DefaultBackfillLimit
	}

	store, err := bu.stores.Open(ctx)
	if err != nil {
		return report, fmt.Errorf("backfill: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			bu.logger.Warn("failed to close store session", "stage", "backfill", "error", err)
		}
	}()

	ids, err := store.FindItemsMissingMetadata(ctx, limit)
	if err != nil {
		return report, fmt.Errorf("backfill: list pending items: %w", err)
	}
	report.Requested = len(ids)

	for _, id := range ids {
		if err := bu.rateLimiter.Wait(ctx); err != nil {
			// コンテキスト終了。ここまでの進捗はカーソルに保存済み
			bu.logger.Warn("backfill interrupted", "item_id", id, "error", err)
			break
		}

		item := bu.catalog.FetchItemMetadata(ctx, token, id)
		if item.Known {
			if err := store.UpdateItemMetadata(ctx, item); err != nil {
				report.Failed++
				bu.logger.Error("failed to update item metadata", "item_id", id, "error", err)
			} else {
				report.Resolved++
			}
		} else {
			report.Unresolved++
		}

		if err := store.SaveBackfillCursor(ctx, id); err != nil {
			report.Failed++
			bu.logger.Error("failed to save backfill cursor", "item_id", id, "error", err)
		}
	}

	if remaining, err := store.CountItemsMissingMetadata(ctx); err == nil {
		report.Remaining = remaining
	} else if !errors.Is(err, context.Canceled) {
		bu.logger.Warn("failed to count pending items", "error", err)
	}

	bu.logger.Info("backfill finished",
		"requested", report.Requested,
		"resolved", report.Resolved,
		"unresolved", report.Unresolved,
		"failed", report.Failed,
		"remaining", report.Remaining,
	)
	return report, nil
}

// isStoreConnect reports whether err aborted a stage before any work was done.
func isStoreConnect(err error) bool {
	return errors.Is(err, domain.ErrStoreConnect)
}
