package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"nftmarket/internal/market"
	"nftmarket/internal/market/events"
	"nftmarket/pkg/domain"
	dErrors "nftmarket/pkg/domain-errors"
	"nftmarket/pkg/platform/sentinel"
)

// BuyItem settles a sale: it validates the listing and payment, commits the
// internal effects (clear listing, credit seller), and only then invokes the
// external asset transfer. The ordering is mandatory: by the time control
// leaves the trust boundary the listing is gone and the credit is booked, so
// a transfer hook that re-enters the marketplace finds NotListed and cannot
// double-sell or double-credit. A failed transfer undoes both effects.
//
// Overpayment is accepted; the excess is neither tracked nor refunded.
func (s *Service) BuyItem(ctx context.Context, key domain.AssetKey, buyer domain.Account, payment decimal.Decimal) (market.Listing, error) {
	ctx, span := tracer.Start(ctx, "market.BuyItem")
	defer span.End()

	s.mu.Lock()
	listing, err := s.listings.Get(ctx, key)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, sentinel.ErrNotFound) {
			return market.Listing{}, &market.NotListedError{Collection: key.Collection, Token: key.Token}
		}
		return market.Listing{}, dErrors.Wrap(err, dErrors.CodeInternal, "load listing failed")
	}
	if payment.Cmp(listing.Price) < 0 {
		s.mu.Unlock()
		return market.Listing{}, &market.PriceNotMetError{Collection: key.Collection, Token: key.Token, Price: listing.Price}
	}

	err = s.txRunner.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.listings.Remove(txCtx, key); err != nil {
			return err
		}
		return s.ledger.Credit(txCtx, listing.Seller, listing.Price)
	})
	s.mu.Unlock()
	if err != nil {
		return market.Listing{}, dErrors.Wrap(err, dErrors.CodeInternal, "settlement effects failed")
	}

	if err := s.custodian.Transfer(ctx, key.Collection, key.Token, listing.Seller, buyer); err != nil {
		s.rollbackSettlement(ctx, listing)
		if s.metrics != nil {
			s.metrics.SettlementFailures.Inc()
		}
		return market.Listing{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "asset transfer failed")
	}

	if s.metrics != nil {
		s.metrics.ItemsSold.Inc()
		s.metrics.OpenListings.Dec()
	}
	s.emitter.Emit(ctx, events.ItemBought(buyer, key, listing.Price))
	return listing, nil
}

// rollbackSettlement restores the listing and reverses the seller credit
// after a failed transfer. It runs on a context detached from the request so
// a cancelled request cannot leave the ledger half-rolled-back. A failure
// here means the ledger no longer balances; that is surfaced loudly rather
// than suppressed.
func (s *Service) rollbackSettlement(ctx context.Context, listing market.Listing) {
	ctx = context.WithoutCancel(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.txRunner.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.listings.Create(txCtx, listing); err != nil {
			return err
		}
		return s.ledger.Debit(txCtx, listing.Seller, listing.Price)
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.InvariantViolations.Inc()
		}
		s.logger.ErrorContext(ctx, "settlement rollback failed",
			"key", listing.Key().String(),
			"seller", listing.Seller,
			"price", listing.Price,
			"error", err,
		)
	}
}

// WithdrawProceeds pays out the caller's accumulated balance. The balance is
// zeroed before the external release: if the payment channel re-enters, the
// second withdrawal sees zero and fails with NoProceeds. A failed release
// restores the balance in full.
func (s *Service) WithdrawProceeds(ctx context.Context, caller domain.Account) (decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "market.WithdrawProceeds")
	defer span.End()

	s.mu.Lock()
	amount, err := s.ledger.WithdrawAll(ctx, caller)
	s.mu.Unlock()
	if err != nil {
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeInternal, "withdraw failed")
	}
	if amount.Sign() == 0 {
		return decimal.Zero, &market.NoProceedsError{}
	}

	if err := s.releaser.Release(ctx, caller, amount); err != nil {
		restoreCtx := context.WithoutCancel(ctx)
		s.mu.Lock()
		if creditErr := s.ledger.Credit(restoreCtx, caller, amount); creditErr != nil {
			if s.metrics != nil {
				s.metrics.InvariantViolations.Inc()
			}
			s.logger.ErrorContext(restoreCtx, "withdraw rollback failed",
				"seller", caller,
				"amount", amount,
				"error", creditErr,
			)
		}
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.WithdrawalFailures.Inc()
		}
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeUnavailable, "payment release failed")
	}

	if s.metrics != nil {
		s.metrics.Withdrawals.Inc()
	}
	return amount, nil
}
