package market

import (
	"time"

	"github.com/shopspring/decimal"

	"nftmarket/pkg/domain"
)

// Listing is an active sale offer for one asset at a fixed price. The zero
// value doubles as the "not listed" sentinel: reads for absent keys return it
// and callers detect absence via Active().
type Listing struct {
	Collection domain.CollectionID `json:"collection"`
	Token      domain.TokenID      `json:"token"`
	Seller     domain.Account      `json:"seller"`
	Price      decimal.Decimal     `json:"price"`
	CreatedAt  time.Time           `json:"created_at,omitzero"`
}

// Key returns the registry key for the listing.
func (l Listing) Key() domain.AssetKey {
	return domain.AssetKey{Collection: l.Collection, Token: l.Token}
}

// Active reports whether the listing represents a live offer. A listing exists
// in the registry only while its price is above zero.
func (l Listing) Active() bool {
	return l.Seller != "" && l.Price.Sign() > 0
}

// ProceedsEntry is one seller's accumulated withdrawable balance.
type ProceedsEntry struct {
	Seller  domain.Account  `json:"seller"`
	Balance decimal.Decimal `json:"balance"`
}
