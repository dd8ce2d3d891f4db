package battlenet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"auction_backend/internal/feature/auctions/domain"
	"auction_backend/internal/feature/auctions/domain/entity"
	"auction_backend/internal/platform/externalapi/battlenet/dto"
)

// ObtainToken は設定の token_data をそのままフォームとして送信し、アクセストークンを取得します。
// 失敗した場合は domain.ErrAuth をラップしたエラーを返します。
func (c *Client) ObtainToken(ctx context.Context) (entity.Token, error) {
	form := url.Values{}
	for k, v := range c.cfg.TokenData {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return entity.Token{}, fmt.Errorf("%w: build request: %v", domain.ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.client.Do(req)
	if err != nil {
		return entity.Token{}, fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	defer c.closeBody(res)

	if res.StatusCode >= 400 {
		return entity.Token{}, fmt.Errorf("%w: token endpoint returned http %d", domain.ErrAuth, res.StatusCode)
	}

	var body dto.TokenResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return entity.Token{}, fmt.Errorf("%w: decode token response: %v", domain.ErrAuth, err)
	}
	if body.AccessToken == "" {
		return entity.Token{}, fmt.Errorf("%w: response has no access_token", domain.ErrAuth)
	}

	// トークン自体はログに出力しない
	c.logger.Info("token received", "region", c.cfg.Region, "expires_in", body.ExpiresIn)
	return entity.Token{Value: body.AccessToken, Region: c.cfg.Region}, nil
}
