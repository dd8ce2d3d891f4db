package usecase

import (
	"context"
	"fmt"
)

// BacklogStatus is a point-in-time view of the backfill backlog.
type BacklogStatus struct {
	PendingItems int64  `json:"pending_items"`
	PriceTable   string `json:"price_table"`
}

// StatusUsecase reports operational state of the stored data.
type StatusUsecase struct {
	stores StoreOpener
}

// NewStatusUsecase creates a StatusUsecase.
func NewStatusUsecase(stores StoreOpener) *StatusUsecase {
	return &StatusUsecase{stores: stores}
}

// Backlog opens a short-lived session and counts items still waiting for metadata.
func (su *StatusUsecase) Backlog(ctx context.Context) (BacklogStatus, error) {
	store, err := su.stores.Open(ctx)
	if err != nil {
		return BacklogStatus{}, fmt.Errorf("status: %w", err)
	}
	defer func() { _ = store.Close() }()

	pending, err := store.CountItemsMissingMetadata(ctx)
	if err != nil {
		return BacklogStatus{}, fmt.Errorf("status: count pending items: %w", err)
	}
	return BacklogStatus{PendingItems: pending, PriceTable: store.PriceTable()}, nil
}
