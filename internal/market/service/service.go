package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"nftmarket/internal/market"
	"nftmarket/internal/market/custody"
	"nftmarket/internal/market/events"
	"nftmarket/internal/market/guard"
	marketmetrics "nftmarket/internal/market/metrics"
	"nftmarket/internal/market/payments"
	"nftmarket/pkg/domain"
	dErrors "nftmarket/pkg/domain-errors"
	"nftmarket/pkg/platform/sentinel"
	"nftmarket/pkg/platform/tx"
)

var tracer = otel.Tracer("nftmarket/market")

// ListingStore is the registry of active listings. Implementations must make
// each operation atomic with respect to its key; Remove in particular must
// let exactly one of two racing callers win.
type ListingStore interface {
	Create(ctx context.Context, listing market.Listing) error
	Get(ctx context.Context, key domain.AssetKey) (market.Listing, error)
	UpdatePrice(ctx context.Context, key domain.AssetKey, price decimal.Decimal) error
	Remove(ctx context.Context, key domain.AssetKey) (market.Listing, error)
}

// ProceedsStore is the ledger of withdrawable seller balances.
type ProceedsStore interface {
	Credit(ctx context.Context, seller domain.Account, amount decimal.Decimal) error
	Balance(ctx context.Context, seller domain.Account) (decimal.Decimal, error)
	WithdrawAll(ctx context.Context, seller domain.Account) (decimal.Decimal, error)
	Debit(ctx context.Context, seller domain.Account, amount decimal.Decimal) error
}

// Service is the marketplace core. All mutating operations serialize their
// internal state transitions on one mutex; the two external calls (asset
// transfer, payment release) run with the mutex released and all internal
// state already in its post-transition form, so a synchronous re-entrant call
// observes NotListed / a zero balance and cannot double-spend.
type Service struct {
	mu sync.Mutex

	listings  ListingStore
	ledger    ProceedsStore
	custodian custody.Custodian
	guard     *guard.Guard
	releaser  payments.Releaser
	operator  domain.Account

	txRunner tx.Runner
	emitter  events.Emitter
	metrics  *marketmetrics.Metrics
	logger   *slog.Logger
}

type Option func(*Service)

func WithEmitter(emitter events.Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

func WithMetrics(m *marketmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) { s.txRunner = runner }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the marketplace service. operator is the account under which
// the marketplace holds transfer approvals at the custodian.
func New(listings ListingStore, ledger ProceedsStore, custodian custody.Custodian, releaser payments.Releaser, operator domain.Account, opts ...Option) *Service {
	s := &Service{
		listings:  listings,
		ledger:    ledger,
		custodian: custodian,
		guard:     guard.New(custodian),
		releaser:  releaser,
		operator:  operator,
		txRunner:  tx.Passthrough{},
		emitter:   noopEmitter{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, events.Event) {}

// ListItem publishes a sale offer for an asset the caller owns. The caller
// must already have granted the marketplace transfer approval at the
// custodian.
func (s *Service) ListItem(ctx context.Context, key domain.AssetKey, price decimal.Decimal, caller domain.Account) (market.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.listings.Get(ctx, key)
	if err == nil && existing.Active() {
		return market.Listing{}, &market.AlreadyListedError{Collection: key.Collection, Token: key.Token}
	}
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return market.Listing{}, dErrors.Wrap(err, dErrors.CodeInternal, "load listing failed")
	}

	isOwner, err := s.guard.VerifyOwner(ctx, key, caller)
	if err != nil {
		return market.Listing{}, err
	}
	if !isOwner {
		return market.Listing{}, &market.NotOwnerError{}
	}

	if price.Sign() <= 0 {
		return market.Listing{}, &market.PriceMustBeAboveZeroError{}
	}

	approved, err := s.guard.VerifyApproval(ctx, key, s.operator)
	if err != nil {
		return market.Listing{}, err
	}
	if !approved {
		return market.Listing{}, &market.NotApprovedForMarketplaceError{}
	}

	listing := market.Listing{
		Collection: key.Collection,
		Token:      key.Token,
		Seller:     caller,
		Price:      price,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return market.Listing{}, err
	}

	if s.metrics != nil {
		s.metrics.ListingsCreated.Inc()
		s.metrics.OpenListings.Inc()
	}
	s.emitter.Emit(ctx, events.ItemListed(caller, key, price))
	return listing, nil
}

// CancelListing clears the caller's own listing.
func (s *Service) CancelListing(ctx context.Context, key domain.AssetKey, caller domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, err := s.listings.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &market.NotListedError{Collection: key.Collection, Token: key.Token}
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "load listing failed")
	}
	if listing.Seller != caller {
		return &market.NotOwnerError{}
	}

	if _, err := s.listings.Remove(ctx, key); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.ListingsCancelled.Inc()
		s.metrics.OpenListings.Dec()
	}
	s.emitter.Emit(ctx, events.ItemCancelled(caller, key))
	return nil
}

// UpdateListing replaces the price of the caller's own listing in place. The
// price rule is the same one list enforces.
func (s *Service) UpdateListing(ctx context.Context, key domain.AssetKey, newPrice decimal.Decimal, caller domain.Account) (market.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, err := s.listings.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return market.Listing{}, &market.NotListedError{Collection: key.Collection, Token: key.Token}
		}
		return market.Listing{}, dErrors.Wrap(err, dErrors.CodeInternal, "load listing failed")
	}
	if listing.Seller != caller {
		return market.Listing{}, &market.NotOwnerError{}
	}
	if newPrice.Sign() <= 0 {
		return market.Listing{}, &market.PriceMustBeAboveZeroError{}
	}

	if err := s.listings.UpdatePrice(ctx, key, newPrice); err != nil {
		return market.Listing{}, err
	}
	listing.Price = newPrice

	if s.metrics != nil {
		s.metrics.ListingsUpdated.Inc()
	}
	s.emitter.Emit(ctx, events.ItemListed(caller, key, newPrice))
	return listing, nil
}

// GetListing returns the listing for key, or the zero/inactive sentinel when
// absent. It never fails on absence; store failures still propagate.
func (s *Service) GetListing(ctx context.Context, key domain.AssetKey) (market.Listing, error) {
	listing, err := s.listings.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return market.Listing{Collection: key.Collection, Token: key.Token}, nil
		}
		return market.Listing{}, dErrors.Wrap(err, dErrors.CodeInternal, "load listing failed")
	}
	return listing, nil
}

// GetProceeds returns the caller's withdrawable balance, zero when none.
func (s *Service) GetProceeds(ctx context.Context, seller domain.Account) (decimal.Decimal, error) {
	return s.ledger.Balance(ctx, seller)
}
