package usecase

import (
	"context"
	"errors"

	"auction_backend/internal/feature/auctions/domain/entity"
)

var ErrDB = errors.New("database error")

type mockTokenProvider struct {
	ObtainTokenFunc  func(ctx context.Context) (entity.Token, error)
	ObtainTokenCalls int
}

func (m *mockTokenProvider) ObtainToken(ctx context.Context) (entity.Token, error) {
	m.ObtainTokenCalls++
	if m.ObtainTokenFunc != nil {
		return m.ObtainTokenFunc(ctx)
	}
	return entity.Token{Value: "token", Region: "us"}, nil
}

type mockListingSource struct {
	FetchListingsFunc  func(ctx context.Context, token entity.Token, realmIDs []int64) []entity.Listing
	FetchListingsCalls int
}

func (m *mockListingSource) FetchListings(ctx context.Context, token entity.Token, realmIDs []int64) []entity.Listing {
	m.FetchListingsCalls++
	if m.FetchListingsFunc != nil {
		return m.FetchListingsFunc(ctx, token, realmIDs)
	}
	return nil
}

type mockItemCatalog struct {
	FetchItemMetadataFunc func(ctx context.Context, token entity.Token, itemID int64) entity.ItemMetadata
	Requested             []int64
}

func (m *mockItemCatalog) FetchItemMetadata(ctx context.Context, token entity.Token, itemID int64) entity.ItemMetadata {
	m.Requested = append(m.Requested, itemID)
	if m.FetchItemMetadataFunc != nil {
		return m.FetchItemMetadataFunc(ctx, token, itemID)
	}
	return entity.UnknownItem(itemID)
}

type mockStore struct {
	EnsureSchemaFunc      func(ctx context.Context) error
	UpsertPricePointsFunc func(ctx context.Context, points map[int64]entity.PricePoint) UpsertResult
	FindMissingFunc       func(ctx context.Context, limit int) ([]int64, error)
	UpdateItemFunc        func(ctx context.Context, item entity.ItemMetadata) error
	SaveCursorFunc        func(ctx context.Context, itemID int64) error
	CountMissingFunc      func(ctx context.Context) (int64, error)

	Updated    []entity.ItemMetadata
	Cursors    []int64
	CloseCalls int
}

func (m *mockStore) EnsureSchema(ctx context.Context) error {
	if m.EnsureSchemaFunc != nil {
		return m.EnsureSchemaFunc(ctx)
	}
	return nil
}

func (m *mockStore) UpsertPricePoints(ctx context.Context, points map[int64]entity.PricePoint) UpsertResult {
	if m.UpsertPricePointsFunc != nil {
		return m.UpsertPricePointsFunc(ctx, points)
	}
	return UpsertResult{Items: len(points), Prices: len(points)}
}

func (m *mockStore) FindItemsMissingMetadata(ctx context.Context, limit int) ([]int64, error) {
	if m.FindMissingFunc != nil {
		return m.FindMissingFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockStore) UpdateItemMetadata(ctx context.Context, item entity.ItemMetadata) error {
	m.Updated = append(m.Updated, item)
	if m.UpdateItemFunc != nil {
		return m.UpdateItemFunc(ctx, item)
	}
	return nil
}

func (m *mockStore) SaveBackfillCursor(ctx context.Context, itemID int64) error {
	m.Cursors = append(m.Cursors, itemID)
	if m.SaveCursorFunc != nil {
		return m.SaveCursorFunc(ctx, itemID)
	}
	return nil
}

func (m *mockStore) CountItemsMissingMetadata(ctx context.Context) (int64, error) {
	if m.CountMissingFunc != nil {
		return m.CountMissingFunc(ctx)
	}
	return 0, nil
}

func (m *mockStore) PriceTable() string {
	return "price_history_2024_00"
}

func (m *mockStore) Close() error {
	m.CloseCalls++
	return nil
}

// mockStoreOpener hands out the same store on every Open.
type mockStoreOpener struct {
	store     *mockStore
	err       error
	OpenCalls int
}

func (m *mockStoreOpener) Open(ctx context.Context) (Store, error) {
	m.OpenCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.store, nil
}

// mockRateLimiter returns immediately, or fails once WaitErrAfter calls have succeeded.
type mockRateLimiter struct {
	WaitCalls    int
	WaitErrAfter int
}

func (m *mockRateLimiter) Wait(ctx context.Context) error {
	m.WaitCalls++
	if m.WaitErrAfter > 0 && m.WaitCalls > m.WaitErrAfter {
		return context.Canceled
	}
	return nil
}

func ptr(v int64) *int64 { return &v }
