package battlenet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"auction_backend/internal/feature/auctions/domain"
	"auction_backend/internal/feature/auctions/usecase"
)

// Client はBattle.netのトークン発行APIとゲームデータAPIにアクセスするクライアントです。
// 1つのクライアントが TokenProvider / ListingSource / ItemCatalog を実装します。
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

var (
	_ usecase.TokenProvider = (*Client)(nil)
	_ usecase.ListingSource = (*Client)(nil)
	_ usecase.ItemCatalog   = (*Client)(nil)
)

// NewClient は指定された設定とHTTPクライアントで Client を作成します。
func NewClient(cfg Config, client *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, client: client, logger: logger}
}

// auctionURL は connected realm のオークション一覧URLを組み立てます。
func (c *Client) auctionURL(realmID int64, token string) string {
	return c.cfg.apiBaseURL() +
		"connected-realm/" + strconv.FormatInt(realmID, 10) +
		"/auctions?namespace=dynamic-" + c.cfg.Region +
		"&locale=" + url.QueryEscape(c.cfg.Locale) +
		"&access_token=" + url.QueryEscape(token)
}

// itemURL はアイテム情報のURLを組み立てます。
func (c *Client) itemURL(itemID int64, token string) string {
	return c.cfg.apiBaseURL() +
		"item/" + strconv.FormatInt(itemID, 10) +
		"?namespace=static-" + c.cfg.Region +
		"&locale=" + url.QueryEscape(c.cfg.Locale) +
		"&access_token=" + url.QueryEscape(token)
}

// get sends a GET request. Transport failures wrap domain.ErrFetch. The caller closes the body.
func (c *Client) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.client.Do(req)
	if err != nil {
		// *url.Error carries the full URL including the access token
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	return res, nil
}

func (c *Client) closeBody(res *http.Response) {
	if err := res.Body.Close(); err != nil {
		c.logger.Warn("failed to close response body", "error", err)
	}
}
