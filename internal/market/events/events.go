package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"nftmarket/pkg/domain"
)

// Type names one marketplace event. The set and the fields each type carries
// are part of the observable contract with external observers.
type Type string

const (
	// TypeItemListed fires on a successful listing and on a price update,
	// carrying (seller, collection, token, price).
	TypeItemListed Type = "item_listed"
	// TypeItemBought fires on settlement, carrying
	// (buyer, collection, token, price).
	TypeItemBought Type = "item_bought"
	// TypeItemCancelled fires on cancellation, carrying
	// (seller, collection, token).
	TypeItemCancelled Type = "item_cancelled"
)

// Event is a fire-and-forget notification to external observers. It carries no
// control-flow significance inside the core.
type Event struct {
	ID         string              `json:"id"`
	Type       Type                `json:"type"`
	Actor      domain.Account      `json:"actor"`
	Collection domain.CollectionID `json:"collection"`
	Token      domain.TokenID      `json:"token"`
	Price      decimal.Decimal     `json:"price"`
	Timestamp  time.Time           `json:"timestamp"`
}

// ItemListed builds the listing/price-update event.
func ItemListed(seller domain.Account, key domain.AssetKey, price decimal.Decimal) Event {
	return newEvent(TypeItemListed, seller, key, price)
}

// ItemBought builds the settlement event.
func ItemBought(buyer domain.Account, key domain.AssetKey, price decimal.Decimal) Event {
	return newEvent(TypeItemBought, buyer, key, price)
}

// ItemCancelled builds the cancellation event.
func ItemCancelled(seller domain.Account, key domain.AssetKey) Event {
	return newEvent(TypeItemCancelled, seller, key, decimal.Zero)
}

func newEvent(t Type, actor domain.Account, key domain.AssetKey, price decimal.Decimal) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Actor:      actor,
		Collection: key.Collection,
		Token:      key.Token,
		Price:      price,
		Timestamp:  time.Now().UTC(),
	}
}

// Emitter accepts events from domain logic. Implementations must never block
// settlement: delivery is best effort.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

// Sink receives events from the worker and delivers them somewhere.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
