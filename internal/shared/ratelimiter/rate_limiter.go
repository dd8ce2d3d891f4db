package ratelimiter

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter はトークンバケットで操作の頻度を制限します。
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter は1秒あたり perSecond 回、最大 burst 回まで連続実行を許可する RateLimiter を生成します。
// perSecond が0以下の場合は制限しません。
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait はトークンが得られるまで待機します。ctx が終了した場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limiter.Tokens() < 1 {
		slog.Debug("rate limit reached, waiting", "limit", float64(rl.limiter.Limit()))
	}
	return rl.limiter.Wait(ctx)
}
