package guard

import (
	"context"
	"fmt"

	"nftmarket/internal/market/custody"
	"nftmarket/pkg/domain"
)

// Guard performs the stateless authorization checks backing listing
// mutations. It consults the custodian on every call and never caches:
// ownership can change outside the marketplace between any two requests.
type Guard struct {
	custodian custody.Custodian
}

func New(custodian custody.Custodian) *Guard {
	return &Guard{custodian: custodian}
}

// VerifyOwner reports whether caller currently owns the asset.
func (g *Guard) VerifyOwner(ctx context.Context, key domain.AssetKey, caller domain.Account) (bool, error) {
	owner, err := g.custodian.OwnerOf(ctx, key.Collection, key.Token)
	if err != nil {
		return false, fmt.Errorf("verify owner of %s: %w", key, err)
	}
	return owner == caller, nil
}

// VerifyApproval reports whether operator holds transfer approval for the
// asset.
func (g *Guard) VerifyApproval(ctx context.Context, key domain.AssetKey, operator domain.Account) (bool, error) {
	approved, err := g.custodian.IsApprovedForTransfer(ctx, key.Collection, key.Token, operator)
	if err != nil {
		return false, fmt.Errorf("verify approval of %s: %w", key, err)
	}
	return approved, nil
}
