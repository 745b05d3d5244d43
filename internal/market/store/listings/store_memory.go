package listings

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"nftmarket/internal/market"
	"nftmarket/pkg/domain"
	"nftmarket/pkg/platform/sentinel"
)

// InMemoryStore keeps the listing registry in a mutex-guarded map. Every
// mutation is atomic with respect to the key, so the settlement path can
// claim-and-remove a listing without a second writer observing it half-gone.
type InMemoryStore struct {
	mu       sync.RWMutex
	listings map[domain.AssetKey]market.Listing
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{listings: make(map[domain.AssetKey]market.Listing)}
}

// Create adds a listing, failing with sentinel.ErrConflict when the key is
// already active. Listing is not an upsert.
func (s *InMemoryStore) Create(_ context.Context, listing market.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := listing.Key()
	if _, exists := s.listings[key]; exists {
		return fmt.Errorf("create listing %s: %w", key, sentinel.ErrConflict)
	}
	s.listings[key] = listing
	return nil
}

// Get returns the listing for key, or sentinel.ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, key domain.AssetKey) (market.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listing, exists := s.listings[key]
	if !exists {
		return market.Listing{}, fmt.Errorf("get listing %s: %w", key, sentinel.ErrNotFound)
	}
	return listing, nil
}

// UpdatePrice replaces the price of an active listing in place.
func (s *InMemoryStore) UpdatePrice(_ context.Context, key domain.AssetKey, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, exists := s.listings[key]
	if !exists {
		return fmt.Errorf("update listing %s: %w", key, sentinel.ErrNotFound)
	}
	listing.Price = price
	s.listings[key] = listing
	return nil
}

// Remove atomically deletes and returns the listing for key. Exactly one
// caller wins when two race for the same key; the loser gets
// sentinel.ErrNotFound.
func (s *InMemoryStore) Remove(_ context.Context, key domain.AssetKey) (market.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, exists := s.listings[key]
	if !exists {
		return market.Listing{}, fmt.Errorf("remove listing %s: %w", key, sentinel.ErrNotFound)
	}
	delete(s.listings, key)
	return listing, nil
}
