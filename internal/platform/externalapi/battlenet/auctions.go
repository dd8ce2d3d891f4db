package battlenet

import (
	"context"
	"encoding/json"
	"io"

	"auction_backend/internal/feature/auctions/domain/entity"
	"auction_backend/internal/platform/externalapi/battlenet/dto"
)

// FetchListings は realmIDs を順に試し、エラーステータス以外を返した最初のレルムの出品を返します。
// 通信エラー（タイムアウトを含む）はエラーステータスと同様に扱い、次のレルムへ進みます。
// すべてのレルムが失敗した場合や採用したレスポンスを解析できない場合は空のスライスを返します。
func (c *Client) FetchListings(ctx context.Context, token entity.Token, realmIDs []int64) []entity.Listing {
	for _, realmID := range realmIDs {
		if ctx.Err() != nil {
			c.logger.Warn("auction fetch canceled", "realm_id", realmID, "error", ctx.Err())
			return nil
		}

		res, err := c.get(ctx, c.auctionURL(realmID, token.Value))
		if err != nil {
			c.logger.Warn("auction request failed, trying next realm", "realm_id", realmID, "error", err)
			continue
		}
		if c.cfg.isErrorStatus(res.StatusCode) {
			c.closeBody(res)
			c.logger.Info("realm returned error status, trying next realm", "realm_id", realmID, "status", res.StatusCode)
			continue
		}

		c.logger.Info("realm accepted", "realm_id", realmID, "status", res.StatusCode)
		listings := c.decodeAuctions(res.Body, realmID)
		c.closeBody(res)
		return listings
	}

	c.logger.Warn("no realm returned auction data", "realms", len(realmIDs))
	return nil
}

func (c *Client) decodeAuctions(body io.Reader, realmID int64) []entity.Listing {
	var payload dto.AuctionsResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		c.logger.Warn("failed to decode auction data", "realm_id", realmID, "error", err)
		return nil
	}

	listings := make([]entity.Listing, 0, len(payload.Auctions))
	for _, a := range payload.Auctions {
		listings = append(listings, entity.Listing{
			AuctionID: a.ID,
			ItemID:    a.Item.ID,
			Quantity:  a.Quantity,
			Buyout:    a.Buyout,
			UnitPrice: a.UnitPrice,
		})
	}
	c.logger.Info("auction data received", "realm_id", realmID, "listings", len(listings))
	return listings
}
