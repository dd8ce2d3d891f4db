package usecase

import "auction_backend/internal/feature/auctions/domain/entity"

// CleanListings は生のオークション一覧をアイテムIDごとの PricePoint に集約します。
// 同じアイテムが複数回出現した場合は最後に出現したものだけが残ります（後勝ち）。
// 欠けているフィールドは nil のまま保持されます。
func CleanListings(listings []entity.Listing) map[int64]entity.PricePoint {
	points := make(map[int64]entity.PricePoint, len(listings))
	for _, l := range listings {
		points[l.ItemID] = entity.PricePoint{
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			Buyout:    l.Buyout,
			UnitPrice: l.UnitPrice,
		}
	}
	return points
}
