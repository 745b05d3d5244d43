package market

import (
	"fmt"

	"github.com/shopspring/decimal"

	"nftmarket/pkg/domain"
	dErrors "nftmarket/pkg/domain-errors"
)

// The marketplace rejects operations with one of a closed set of error
// variants. Identifiers and their positional data are part of the observable
// contract; existing callers match on them. Each variant classifies itself via
// DomainCode so the transport layer can translate without knowing the set.

// PriceMustBeAboveZeroError rejects list/update calls with a non-positive price.
type PriceMustBeAboveZeroError struct{}

func (e *PriceMustBeAboveZeroError) Error() string { return "price must be above zero" }

func (e *PriceMustBeAboveZeroError) DomainCode() dErrors.Code { return dErrors.CodeBadRequest }

// AlreadyListedError rejects listing a key that already has an active listing.
type AlreadyListedError struct {
	Collection domain.CollectionID
	Token      domain.TokenID
}

func (e *AlreadyListedError) Error() string {
	return fmt.Sprintf("already listed: %s/%s", e.Collection, e.Token)
}

func (e *AlreadyListedError) DomainCode() dErrors.Code { return dErrors.CodeConflict }

// NotApprovedForMarketplaceError rejects listing an asset whose custodian has
// not approved the marketplace as transfer operator.
type NotApprovedForMarketplaceError struct{}

func (e *NotApprovedForMarketplaceError) Error() string { return "not approved for marketplace" }

func (e *NotApprovedForMarketplaceError) DomainCode() dErrors.Code { return dErrors.CodeForbidden }

// NotListedError rejects operations on a key with no active listing.
type NotListedError struct {
	Collection domain.CollectionID
	Token      domain.TokenID
}

func (e *NotListedError) Error() string {
	return fmt.Sprintf("not listed: %s/%s", e.Collection, e.Token)
}

func (e *NotListedError) DomainCode() dErrors.Code { return dErrors.CodeNotFound }

// PriceNotMetError rejects a buy whose payment is below the listed price.
type PriceNotMetError struct {
	Collection domain.CollectionID
	Token      domain.TokenID
	Price      decimal.Decimal
}

func (e *PriceNotMetError) Error() string {
	return fmt.Sprintf("price not met: %s/%s listed at %s", e.Collection, e.Token, e.Price)
}

func (e *PriceNotMetError) DomainCode() dErrors.Code { return dErrors.CodeBadRequest }

// NotOwnerError rejects mutations by a caller who does not own the asset or
// the listing.
type NotOwnerError struct{}

func (e *NotOwnerError) Error() string { return "not owner" }

func (e *NotOwnerError) DomainCode() dErrors.Code { return dErrors.CodeForbidden }

// NoProceedsError rejects a withdrawal against a zero balance.
type NoProceedsError struct{}

func (e *NoProceedsError) Error() string { return "no proceeds" }

func (e *NoProceedsError) DomainCode() dErrors.Code { return dErrors.CodeConflict }
