// Package dto holds the wire formats of the Battle.net API.
package dto

// TokenResponse is the body of the OAuth client-credentials exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AuctionsResponse is the body of /connected-realm/{id}/auctions.
type AuctionsResponse struct {
	Auctions []Auction `json:"auctions"`
}

// Auction is one listing. Commodities carry unit_price instead of buyout,
// so every amount is optional.
type Auction struct {
	ID        int64   `json:"id"`
	Item      ItemRef `json:"item"`
	Quantity  *int64  `json:"quantity"`
	Buyout    *int64  `json:"buyout"`
	UnitPrice *int64  `json:"unit_price"`
	Bid       *int64  `json:"bid"`
	TimeLeft  string  `json:"time_left"`
}

type ItemRef struct {
	ID int64 `json:"id"`
}

// ItemResponse is the body of /item/{id} requested with a locale.
type ItemResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Quality Quality `json:"quality"`
}

type Quality struct {
	Type string `json:"type"`
	Name string `json:"name"`
}
