// Package domain holds the error taxonomy shared by the auctions feature.
package domain

import "errors"

var (
	// ErrAuth はトークン取得に失敗したことを示します。実行全体を中断します。
	ErrAuth = errors.New("auctions: authentication failed")
	// ErrFetch はレルム単位・アイテム単位の取得失敗です。空の結果に縮退します。
	ErrFetch = errors.New("auctions: fetch failed")
	// ErrStoreConnect はストアへの接続失敗です。そのステージのみ中断します。
	ErrStoreConnect = errors.New("auctions: store connection failed")
	// ErrStatement は単一ステートメントの失敗です。ログに出力して処理を続行します。
	ErrStatement = errors.New("auctions: statement failed")
)
