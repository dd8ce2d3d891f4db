package dto

// BacklogResponse is the body of GET /backfill.
type BacklogResponse struct {
	PendingItems int64  `json:"pending_items"`
	PriceTable   string `json:"price_table"`
}
