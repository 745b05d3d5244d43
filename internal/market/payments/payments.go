package payments

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"nftmarket/pkg/domain"
)

// Releaser is the external payment channel used by proceeds withdrawal. Like
// the custodian transfer, Release may synchronously re-enter the marketplace
// (the recipient's receipt hook); callers must have committed their own state
// before invoking it.
type Releaser interface {
	Release(ctx context.Context, to domain.Account, amount decimal.Decimal) error
}

// MemoryReleaser records payouts in memory. It backs tests and the dev
// wiring, where no real payment rail exists.
type MemoryReleaser struct {
	mu      sync.Mutex
	payouts map[domain.Account]decimal.Decimal
}

func NewMemoryReleaser() *MemoryReleaser {
	return &MemoryReleaser{payouts: make(map[domain.Account]decimal.Decimal)}
}

func (r *MemoryReleaser) Release(_ context.Context, to domain.Account, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payouts[to] = r.payouts[to].Add(amount)
	return nil
}

// PaidOut returns the total released to an account.
func (r *MemoryReleaser) PaidOut(to domain.Account) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payouts[to]
}
