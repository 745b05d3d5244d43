package custody

import (
	"context"
	"fmt"
	"sync"

	"nftmarket/pkg/domain"
	"nftmarket/pkg/platform/sentinel"
)

// InMemoryCustodian is a minimal asset registry implementing Custodian. It
// backs development wiring and tests: Mint creates assets, Approve grants the
// marketplace per-asset transfer rights, Transfer moves ownership and clears
// the approval, mirroring ERC-721 semantics.
type InMemoryCustodian struct {
	mu        sync.RWMutex
	owners    map[domain.AssetKey]domain.Account
	approvals map[domain.AssetKey]domain.Account
}

func NewInMemoryCustodian() *InMemoryCustodian {
	return &InMemoryCustodian{
		owners:    make(map[domain.AssetKey]domain.Account),
		approvals: make(map[domain.AssetKey]domain.Account),
	}
}

// Mint registers a new asset under the given owner.
func (c *InMemoryCustodian) Mint(collection domain.CollectionID, token domain.TokenID, owner domain.Account) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := domain.AssetKey{Collection: collection, Token: token}
	if _, exists := c.owners[key]; exists {
		return fmt.Errorf("mint %s: %w", key, sentinel.ErrConflict)
	}
	c.owners[key] = owner
	return nil
}

// Approve grants operator transfer rights for one asset. Only the current
// owner may approve.
func (c *InMemoryCustodian) Approve(collection domain.CollectionID, token domain.TokenID, owner, operator domain.Account) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := domain.AssetKey{Collection: collection, Token: token}
	current, exists := c.owners[key]
	if !exists {
		return fmt.Errorf("approve %s: %w", key, sentinel.ErrNotFound)
	}
	if current != owner {
		return fmt.Errorf("approve %s: caller %s is not owner", key, owner)
	}
	c.approvals[key] = operator
	return nil
}

func (c *InMemoryCustodian) OwnerOf(_ context.Context, collection domain.CollectionID, token domain.TokenID) (domain.Account, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := domain.AssetKey{Collection: collection, Token: token}
	owner, exists := c.owners[key]
	if !exists {
		return "", fmt.Errorf("owner of %s: %w", key, sentinel.ErrNotFound)
	}
	return owner, nil
}

func (c *InMemoryCustodian) IsApprovedForTransfer(_ context.Context, collection domain.CollectionID, token domain.TokenID, operator domain.Account) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := domain.AssetKey{Collection: collection, Token: token}
	if _, exists := c.owners[key]; !exists {
		return false, fmt.Errorf("approval of %s: %w", key, sentinel.ErrNotFound)
	}
	return c.approvals[key] == operator, nil
}

func (c *InMemoryCustodian) Transfer(_ context.Context, collection domain.CollectionID, token domain.TokenID, from, to domain.Account) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := domain.AssetKey{Collection: collection, Token: token}
	owner, exists := c.owners[key]
	if !exists {
		return fmt.Errorf("transfer %s: %w", key, sentinel.ErrNotFound)
	}
	if owner != from {
		return fmt.Errorf("transfer %s: %s is not owner", key, from)
	}
	c.owners[key] = to
	// Approval is per-owner; a transfer invalidates it.
	delete(c.approvals, key)
	return nil
}
