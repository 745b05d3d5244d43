package listings

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"nftmarket/internal/market"
	"nftmarket/pkg/domain"
	"nftmarket/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func testListing(token domain.TokenID) market.Listing {
	return market.Listing{
		Collection: "collection-a",
		Token:      token,
		Seller:     "seller",
		Price:      decimal.RequireFromString("0.1"),
	}
}

func (s *InMemoryStoreSuite) TestCreate() {
	s.Run("stores a new listing", func() {
		listing := testListing("create-1")
		s.Require().NoError(s.store.Create(s.ctx, listing))

		got, err := s.store.Get(s.ctx, listing.Key())
		s.Require().NoError(err)
		s.Equal(listing.Seller, got.Seller)
		s.True(got.Price.Equal(listing.Price))
	})

	s.Run("rejects a duplicate key", func() {
		listing := testListing("create-2")
		s.Require().NoError(s.store.Create(s.ctx, listing))

		err := s.store.Create(s.ctx, listing)
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *InMemoryStoreSuite) TestGet() {
	s.Run("missing key returns not found", func() {
		_, err := s.store.Get(s.ctx, domain.AssetKey{Collection: "collection-a", Token: "missing"})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestUpdatePrice() {
	s.Run("missing key returns not found", func() {
		err := s.store.UpdatePrice(s.ctx, domain.AssetKey{Collection: "collection-a", Token: "missing"}, decimal.NewFromInt(1))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("replaces price in place", func() {
		listing := testListing("update-1")
		s.Require().NoError(s.store.Create(s.ctx, listing))

		newPrice := decimal.RequireFromString("0.5")
		s.Require().NoError(s.store.UpdatePrice(s.ctx, listing.Key(), newPrice))

		got, err := s.store.Get(s.ctx, listing.Key())
		s.Require().NoError(err)
		s.True(got.Price.Equal(newPrice))
		s.Equal(listing.Seller, got.Seller)
	})
}

func (s *InMemoryStoreSuite) TestRemove() {
	s.Run("missing key returns not found", func() {
		_, err := s.store.Remove(s.ctx, domain.AssetKey{Collection: "collection-a", Token: "missing"})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns the removed listing", func() {
		listing := testListing("remove-1")
		s.Require().NoError(s.store.Create(s.ctx, listing))

		removed, err := s.store.Remove(s.ctx, listing.Key())
		s.Require().NoError(err)
		s.True(removed.Price.Equal(listing.Price))

		_, err = s.store.Get(s.ctx, listing.Key())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("exactly one concurrent claimant wins", func() {
		listing := testListing("remove-race")
		s.Require().NoError(s.store.Create(s.ctx, listing))

		const claimants = 32
		var wg sync.WaitGroup
		wins := make(chan market.Listing, claimants)
		for range claimants {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if removed, err := s.store.Remove(s.ctx, listing.Key()); err == nil {
					wins <- removed
				}
			}()
		}
		wg.Wait()
		close(wins)

		s.Len(wins, 1)
	})
}
