package battlenet

import (
	"context"
	"encoding/json"

	"auction_backend/internal/feature/auctions/domain/entity"
	"auction_backend/internal/platform/externalapi/battlenet/dto"
)

// FetchItemMetadata はアイテムの名前と品質を取得します。
// 取得・解析に失敗した場合はエラーを返さず entity.UnknownItem を返します。
func (c *Client) FetchItemMetadata(ctx context.Context, token entity.Token, itemID int64) entity.ItemMetadata {
	res, err := c.get(ctx, c.itemURL(itemID, token.Value))
	if err != nil {
		c.logger.Warn("item request failed", "item_id", itemID, "error", err)
		return entity.UnknownItem(itemID)
	}
	defer c.closeBody(res)

	if c.cfg.isErrorStatus(res.StatusCode) || res.StatusCode >= 400 {
		c.logger.Warn("item request returned error status", "item_id", itemID, "status", res.StatusCode)
		return entity.UnknownItem(itemID)
	}

	var body dto.ItemResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		c.logger.Warn("failed to decode item", "item_id", itemID, "error", err)
		return entity.UnknownItem(itemID)
	}
	if body.Name == "" {
		c.logger.Warn("item has no name", "item_id", itemID)
		return entity.UnknownItem(itemID)
	}

	c.logger.Debug("item metadata received", "item_id", itemID, "name", body.Name)
	return entity.ItemMetadata{
		ItemID:  itemID,
		Name:    body.Name,
		Quality: body.Quality.Type,
		Known:   true,
	}
}
