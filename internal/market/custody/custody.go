package custody

import (
	"context"

	"nftmarket/pkg/domain"
)

// Custodian is the system of record for asset ownership and transfer
// approval. The marketplace depends only on this interface; ownership may
// change outside the marketplace at any time, so answers are treated as
// potentially stale the moment they are returned and are re-verified on every
// mutating call.
type Custodian interface {
	// OwnerOf returns the current owner of the asset, or
	// sentinel.ErrNotFound for an unknown asset.
	OwnerOf(ctx context.Context, collection domain.CollectionID, token domain.TokenID) (domain.Account, error)

	// IsApprovedForTransfer reports whether operator may transfer the asset
	// on the owner's behalf.
	IsApprovedForTransfer(ctx context.Context, collection domain.CollectionID, token domain.TokenID, operator domain.Account) (bool, error)

	// Transfer moves the asset from one account to another. It fails if
	// from no longer owns the asset. The call may synchronously re-enter
	// the marketplace (receipt hooks); callers must have committed their
	// own state before invoking it.
	Transfer(ctx context.Context, collection domain.CollectionID, token domain.TokenID, from, to domain.Account) error
}
