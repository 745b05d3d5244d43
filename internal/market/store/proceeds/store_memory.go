package proceeds

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"nftmarket/pkg/domain"
	"nftmarket/pkg/platform/sentinel"
)

// InMemoryStore keeps seller balances in a mutex-guarded map. WithdrawAll is
// the load-bearing operation: it zeroes and returns the balance atomically so
// a re-entrant withdrawal observes zero and cannot drain the ledger twice.
type InMemoryStore struct {
	mu       sync.RWMutex
	balances map[domain.Account]decimal.Decimal
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{balances: make(map[domain.Account]decimal.Decimal)}
}

// Credit adds amount to seller's balance, creating the entry if needed.
func (s *InMemoryStore) Credit(_ context.Context, seller domain.Account, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[seller] = s.balances[seller].Add(amount)
	return nil
}

// Balance returns seller's balance, zero when no entry exists.
func (s *InMemoryStore) Balance(_ context.Context, seller domain.Account) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[seller], nil
}

// WithdrawAll atomically zeroes seller's balance and returns the prior value.
// A zero return means there was nothing to withdraw.
func (s *InMemoryStore) WithdrawAll(_ context.Context, seller domain.Account) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance := s.balances[seller]
	delete(s.balances, seller)
	return balance, nil
}

// Debit removes amount from seller's balance. Used only to undo a settlement
// credit; it fails with sentinel.ErrInsufficient rather than going negative.
func (s *InMemoryStore) Debit(_ context.Context, seller domain.Account, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance := s.balances[seller]
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("debit %s by %s: %w", seller, amount, sentinel.ErrInsufficient)
	}
	remaining := balance.Sub(amount)
	if remaining.Sign() == 0 {
		delete(s.balances, seller)
	} else {
		s.balances[seller] = remaining
	}
	return nil
}

// Total returns the sum of all balances. Used by the conservation checks in
// tests and the open-proceeds gauge.
func (s *InMemoryStore) Total(_ context.Context) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, balance := range s.balances {
		total = total.Add(balance)
	}
	return total, nil
}
