package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"auction_backend/internal/feature/auctions/domain"
	"auction_backend/internal/feature/auctions/transport/http/dto"
	"auction_backend/internal/feature/auctions/usecase"
)

// StatusUsecase はバックフィル状況を返すユースケースのインターフェースです。
type StatusUsecase interface {
	Backlog(ctx context.Context) (usecase.BacklogStatus, error)
}

// BackfillHandler はメタデータ補完の状況に関するHTTPリクエストを処理します。
type BackfillHandler struct {
	uc StatusUsecase
}

// NewBackfillHandler は新しい BackfillHandler を作成します。
func NewBackfillHandler(uc StatusUsecase) *BackfillHandler {
	return &BackfillHandler{uc: uc}
}

// Status は名前が未解決のアイテム数と今週の価格テーブル名を返します。
// ストアに接続できない場合は503、その他のエラーは500を返します。
func (h *BackfillHandler) Status(c *gin.Context) {
	st, err := h.uc.Backlog(c.Request.Context())
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, domain.ErrStoreConnect) {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.BacklogResponse{PendingItems: st.PendingItems, PriceTable: st.PriceTable})
}
