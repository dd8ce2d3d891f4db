package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"auction_backend/internal/feature/auctions/domain/entity"
)

// RunReport summarizes one scheduled invocation.
type RunReport struct {
	Listings int // raw listings received
	Items    int // distinct items after normalization
	Upsert   UpsertResult
	Backfill BackfillReport
	Duration time.Duration
}

// CollectUsecase はオークションデータの取得から永続化、メタデータ補完までの1回分の実行を統括します。
type CollectUsecase struct {
	tokens        TokenProvider
	listings      ListingSource
	stores        StoreOpener
	backfill      *BackfillUsecase
	realmIDs      []int64
	backfillLimit int
	logger        *slog.Logger
}

// NewCollectUsecase は新しい CollectUsecase を作成します。
// realmIDs は優先順に並んだ connected realm の ID です。
func NewCollectUsecase(tokens TokenProvider, listings ListingSource, stores StoreOpener, backfill *BackfillUsecase,
	realmIDs []int64, backfillLimit int, logger *slog.Logger) *CollectUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectUsecase{
		tokens:        tokens,
		listings:      listings,
		stores:        stores,
		backfill:      backfill,
		realmIDs:      append([]int64(nil), realmIDs...),
		backfillLimit: backfillLimit,
		logger:        logger,
	}
}

// Run は トークン取得 → 取得 → 正規化 → 永続化 → 補完 の順に1回分の処理を実行します。
// 認証に失敗した場合のみエラーを返し、それ以降の処理は行いません。
// その他の失敗はログに出力して次のステージへ進みます。
func (cu *CollectUsecase) Run(ctx context.Context) (RunReport, error) {
	start := time.Now()
	var report RunReport

	token, err := cu.tokens.ObtainToken(ctx)
	if err != nil {
		cu.logger.Error("aborting run: no token", "error", err)
		return report, err
	}

	listings := cu.listings.FetchListings(ctx, token, cu.realmIDs)
	points := CleanListings(listings)
	report.Listings = len(listings)
	report.Items = len(points)

	report.Upsert = cu.persist(ctx, points)

	bf, err := cu.backfill.Reconcile(ctx, token, cu.backfillLimit)
	if err != nil {
		cu.logger.Error("backfill stage skipped", "store_connect", isStoreConnect(err), "error", err)
	}
	report.Backfill = bf

	report.Duration = time.Since(start)
	cu.logger.Info("run finished",
		"listings", report.Listings,
		"items", report.Items,
		"prices_written", report.Upsert.Prices,
		"statements_failed", report.Upsert.Failed+report.Backfill.Failed,
		"resolved", report.Backfill.Resolved,
		"duration", report.Duration,
	)
	return report, nil
}

// FetchCleanListings はトークンを取得して現在の出品を取得・正規化して返します。永続化は行いません。
func (cu *CollectUsecase) FetchCleanListings(ctx context.Context) (map[int64]entity.PricePoint, error) {
	token, err := cu.tokens.ObtainToken(ctx)
	if err != nil {
		return nil, err
	}
	return CleanListings(cu.listings.FetchListings(ctx, token, cu.realmIDs)), nil
}

// persist は専用のストアセッションでスキーマを準備し、価格を書き込みます。
func (cu *CollectUsecase) persist(ctx context.Context, points map[int64]entity.PricePoint) UpsertResult {
	store, err := cu.stores.Open(ctx)
	if err != nil {
		cu.logger.Error("persist stage skipped", "error", fmt.Errorf("persist: %w", err))
		return UpsertResult{}
	}
	defer func() {
		if err := store.Close(); err != nil {
			cu.logger.Warn("failed to close store session", "stage", "persist", "error", err)
		}
	}()

	if err := store.EnsureSchema(ctx); err != nil {
		// テーブルが無ければ以降の書き込みはすべて失敗するが、ステートメント単位で記録される
		cu.logger.Error("failed to ensure schema", "error", err)
	}
	return store.UpsertPricePoints(ctx, points)
}
