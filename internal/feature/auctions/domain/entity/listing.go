// Package entity defines the domain models for the auctions feature.
package entity

// Listing is one auction entry as returned by the auction-house endpoint.
// Absent numeric fields are nil.
type Listing struct {
	AuctionID int64
	ItemID    int64
	Quantity  *int64
	Buyout    *int64 // set for regular items
	UnitPrice *int64 // set for commodities, which never carry a buyout
}

// PricePoint is the normalized per-item record produced from one fetch.
type PricePoint struct {
	ItemID    int64
	Quantity  *int64
	Buyout    *int64
	UnitPrice *int64
}

// Price returns the value recorded in the hourly history: the buyout,
// or the unit price when the listing has no buyout.
func (p PricePoint) Price() (int64, bool) {
	if p.Buyout != nil {
		return *p.Buyout, true
	}
	if p.UnitPrice != nil {
		return *p.UnitPrice, true
	}
	return 0, false
}
