package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"auction_backend/internal/feature/auctions/domain"
	"auction_backend/internal/feature/auctions/usecase"
)

// mockStatusUsecase はStatusUsecaseインターフェースのモック実装です。
type mockStatusUsecase struct {
	BacklogFunc func(ctx context.Context) (usecase.BacklogStatus, error)
}

// Backlog はモックのBacklog関数を呼び出します。
func (m *mockStatusUsecase) Backlog(ctx context.Context) (usecase.BacklogStatus, error) {
	if m.BacklogFunc != nil {
		return m.BacklogFunc(ctx)
	}
	return usecase.BacklogStatus{}, nil
}

// TestNewBackfillHandler はコンストラクタが正しくインスタンスを生成することを検証します。
func TestNewBackfillHandler(t *testing.T) {
	t.Parallel()

	h := NewBackfillHandler(&mockStatusUsecase{})

	assert.NotNil(t, h)
	assert.NotNil(t, h.uc)
}

// TestBackfillHandler_Status はStatusハンドラーの各種シナリオをテーブル駆動テストで検証します。
func TestBackfillHandler_Status(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		backlogFunc    func(ctx context.Context) (usecase.BacklogStatus, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: returns backlog",
			backlogFunc: func(ctx context.Context) (usecase.BacklogStatus, error) {
				return usecase.BacklogStatus{PendingItems: 42, PriceTable: "price_history_2024_10"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"pending_items":42,"price_table":"price_history_2024_10"}`,
		},
		{
			name: "success: empty backlog",
			backlogFunc: func(ctx context.Context) (usecase.BacklogStatus, error) {
				return usecase.BacklogStatus{PriceTable: "price_history_2024_10"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"pending_items":0,"price_table":"price_history_2024_10"}`,
		},
		{
			name: "failure: store unreachable",
			backlogFunc: func(ctx context.Context) (usecase.BacklogStatus, error) {
				return usecase.BacklogStatus{}, fmt.Errorf("status: %w: dial tcp: refused", domain.ErrStoreConnect)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"error":"status: auctions: store connection failed: dial tcp: refused"}`,
		},
		{
			name: "failure: query error",
			backlogFunc: func(ctx context.Context) (usecase.BacklogStatus, error) {
				return usecase.BacklogStatus{}, errors.New("no such table: item_names")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"no such table: item_names"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewBackfillHandler(&mockStatusUsecase{BacklogFunc: tt.backlogFunc})

			router := gin.New()
			router.GET("/backfill", h.Status)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/backfill", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
