// Package usecase implements the collection and backfill pipeline for auction data.
package usecase

import (
	"context"

	"auction_backend/internal/feature/auctions/domain/entity"
)

// Interfaces are defined here, by the consumer, and implemented in adapters and platform packages.

// TokenProvider exchanges the configured credentials for a bearer token.
type TokenProvider interface {
	ObtainToken(ctx context.Context) (entity.Token, error)
}

// ListingSource returns the listings of the first connected realm that answers.
// It never fails: an empty slice means no realm produced usable data.
type ListingSource interface {
	FetchListings(ctx context.Context, token entity.Token, realmIDs []int64) []entity.Listing
}

// ItemCatalog resolves item display data. Failures yield entity.UnknownItem.
type ItemCatalog interface {
	FetchItemMetadata(ctx context.Context, token entity.Token, itemID int64) entity.ItemMetadata
}

// UpsertResult summarizes one UpsertPricePoints batch.
type UpsertResult struct {
	Items  int // metadata rows ensured
	Prices int // hourly price cells written
	Failed int // statements that failed and were skipped
}

// Store is one open session against the price-history database.
type Store interface {
	EnsureSchema(ctx context.Context) error
	UpsertPricePoints(ctx context.Context, points map[int64]entity.PricePoint) UpsertResult
	FindItemsMissingMetadata(ctx context.Context, limit int) ([]int64, error)
	UpdateItemMetadata(ctx context.Context, item entity.ItemMetadata) error
	SaveBackfillCursor(ctx context.Context, itemID int64) error
	CountItemsMissingMetadata(ctx context.Context) (int64, error)
	// PriceTable is the weekly price-history table this session writes to.
	PriceTable() string
	Close() error
}

// StoreOpener opens a new Store session. Each pipeline stage uses its own session.
type StoreOpener interface {
	Open(ctx context.Context) (Store, error)
}
