package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"nftmarket/internal/market/custody"
	"nftmarket/pkg/domain"
	"nftmarket/pkg/platform/sentinel"
)

type GuardSuite struct {
	suite.Suite
	custodian *custody.InMemoryCustodian
	guard     *Guard
	ctx       context.Context
	key       domain.AssetKey
}

func TestGuardSuite(t *testing.T) {
	suite.Run(t, new(GuardSuite))
}

func (s *GuardSuite) SetupTest() {
	s.custodian = custody.NewInMemoryCustodian()
	s.guard = New(s.custodian)
	s.ctx = context.Background()
	s.key = domain.AssetKey{Collection: "collection-a", Token: "0"}

	s.Require().NoError(s.custodian.Mint(s.key.Collection, s.key.Token, "owner"))
}

func (s *GuardSuite) TestVerifyOwner() {
	ok, err := s.guard.VerifyOwner(s.ctx, s.key, "owner")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.guard.VerifyOwner(s.ctx, s.key, "stranger")
	s.Require().NoError(err)
	s.False(ok)

	_, err = s.guard.VerifyOwner(s.ctx, domain.AssetKey{Collection: "collection-a", Token: "missing"}, "owner")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *GuardSuite) TestVerifyApproval() {
	ok, err := s.guard.VerifyApproval(s.ctx, s.key, "marketplace")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.custodian.Approve(s.key.Collection, s.key.Token, "owner", "marketplace"))

	ok, err = s.guard.VerifyApproval(s.ctx, s.key, "marketplace")
	s.Require().NoError(err)
	s.True(ok)
}

// Ownership changes outside the marketplace must be visible on the very next
// check.
func (s *GuardSuite) TestChecksAreNeverCached() {
	ok, err := s.guard.VerifyOwner(s.ctx, s.key, "owner")
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.custodian.Transfer(s.ctx, s.key.Collection, s.key.Token, "owner", "stranger"))

	ok, err = s.guard.VerifyOwner(s.ctx, s.key, "owner")
	s.Require().NoError(err)
	s.False(ok)
}
