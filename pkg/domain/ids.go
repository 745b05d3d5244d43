package domain

import "fmt"

// Account identifies a caller of the marketplace: a seller, a buyer, or the
// marketplace operator itself. The execution environment (auth middleware)
// resolves it; the core never mints accounts.
type Account string

func (a Account) String() string { return string(a) }

// IsZero reports whether the account is unset.
func (a Account) IsZero() bool { return a == "" }

// CollectionID identifies a collection of unique assets, e.g. an NFT contract
// address.
type CollectionID string

func (c CollectionID) String() string { return string(c) }

// TokenID identifies one asset inside a collection.
type TokenID string

func (t TokenID) String() string { return string(t) }

// AssetKey is the composite key for one unique asset.
type AssetKey struct {
	Collection CollectionID
	Token      TokenID
}

func (k AssetKey) String() string {
	return fmt.Sprintf("%s/%s", k.Collection, k.Token)
}

// IsZero reports whether either half of the key is unset.
func (k AssetKey) IsZero() bool {
	return k.Collection == "" || k.Token == ""
}
