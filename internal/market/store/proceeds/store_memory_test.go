package proceeds

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

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

func (s *InMemoryStoreSuite) TestCreditAndBalance() {
	seller := domain.Account("seller-credit")

	balance, err := s.store.Balance(s.ctx, seller)
	s.Require().NoError(err)
	s.True(balance.IsZero())

	s.Require().NoError(s.store.Credit(s.ctx, seller, decimal.RequireFromString("0.1")))
	s.Require().NoError(s.store.Credit(s.ctx, seller, decimal.RequireFromString("0.2")))

	balance, err = s.store.Balance(s.ctx, seller)
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.RequireFromString("0.3")))
}

func (s *InMemoryStoreSuite) TestWithdrawAll() {
	seller := domain.Account("seller-withdraw")
	amount := decimal.RequireFromString("0.5")
	s.Require().NoError(s.store.Credit(s.ctx, seller, amount))

	withdrawn, err := s.store.WithdrawAll(s.ctx, seller)
	s.Require().NoError(err)
	s.True(withdrawn.Equal(amount))

	balance, err := s.store.Balance(s.ctx, seller)
	s.Require().NoError(err)
	s.True(balance.IsZero())

	// Second withdrawal finds nothing.
	withdrawn, err = s.store.WithdrawAll(s.ctx, seller)
	s.Require().NoError(err)
	s.True(withdrawn.IsZero())
}

func (s *InMemoryStoreSuite) TestWithdrawAllIsExactlyOnce() {
	seller := domain.Account("seller-race")
	amount := decimal.RequireFromString("1")
	s.Require().NoError(s.store.Credit(s.ctx, seller, amount))

	const withdrawers = 32
	var wg sync.WaitGroup
	total := decimal.Zero
	var mu sync.Mutex
	for range withdrawers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			withdrawn, err := s.store.WithdrawAll(s.ctx, seller)
			s.NoError(err)
			mu.Lock()
			total = total.Add(withdrawn)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Concurrent withdrawals pay out the balance exactly once in total.
	s.True(total.Equal(amount), "total withdrawn %s, want %s", total, amount)
}

func (s *InMemoryStoreSuite) TestDebit() {
	seller := domain.Account("seller-debit")
	s.Require().NoError(s.store.Credit(s.ctx, seller, decimal.RequireFromString("0.3")))

	s.Run("rejects debit beyond balance", func() {
		err := s.store.Debit(s.ctx, seller, decimal.RequireFromString("0.4"))
		s.ErrorIs(err, sentinel.ErrInsufficient)
	})

	s.Run("removes exactly the debited amount", func() {
		s.Require().NoError(s.store.Debit(s.ctx, seller, decimal.RequireFromString("0.1")))

		balance, err := s.store.Balance(s.ctx, seller)
		s.Require().NoError(err)
		s.True(balance.Equal(decimal.RequireFromString("0.2")))
	})

	s.Run("debit to zero clears the entry", func() {
		s.Require().NoError(s.store.Debit(s.ctx, seller, decimal.RequireFromString("0.2")))

		total, err := s.store.Total(s.ctx)
		s.Require().NoError(err)
		s.True(total.IsZero())
	})
}

func (s *InMemoryStoreSuite) TestTotal() {
	s.Require().NoError(s.store.Credit(s.ctx, "a", decimal.RequireFromString("0.1")))
	s.Require().NoError(s.store.Credit(s.ctx, "b", decimal.RequireFromString("0.2")))

	total, err := s.store.Total(s.ctx)
	s.Require().NoError(err)
	s.True(total.Equal(decimal.RequireFromString("0.3")))
}
