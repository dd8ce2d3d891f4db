package router

import (
	"github.com/gin-gonic/gin"

	auctionshandler "auction_backend/internal/feature/auctions/transport/handler"
	"auction_backend/internal/platform/http/handler"
)

// NewRouter builds the operational status server. There is no query API over price history.
func NewRouter(backfill *auctionshandler.BackfillHandler, checks map[string]handler.Check) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	health := handler.NewHealth(checks)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	// メタデータ補完の残件数
	r.GET("/backfill", backfill.Status)

	return r
}
