package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version  string         `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type           `json:"type"`
	Payload  interface{}    `json:"payload"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Economy event types
const (
	PotionBrewed      Type = domain.EventTypePotionBrewed
	ExchangeCreated   Type = domain.EventTypeExchangeCreated
	ExchangeAccepted  Type = domain.EventTypeExchangeAccepted
	ExchangeCancelled Type = domain.EventTypeExchangeCancelled
	ShopItemPurchased Type = domain.EventTypeShopItemPurchased
	ShopItemRestocked Type = domain.EventTypeShopItemRestocked
	ShopTillWithdrawn Type = domain.EventTypeShopTillWithdrawn
)

// AllTypes lists every event type the economy publishes.
func AllTypes() []Type {
	return []Type{
		PotionBrewed,
		ExchangeCreated, ExchangeAccepted, ExchangeCancelled,
		ShopItemPurchased, ShopItemRestocked, ShopTillWithdrawn,
	}
}

// Type-safe event constructors

// NewPotionBrewedEvent creates the event published after a brew commits
func NewPotionBrewedEvent(userID, characterID, recipeID, potionID string, quantity int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PotionBrewed,
		Payload: domain.PotionBrewedPayload{
			UserID:      userID,
			CharacterID: characterID,
			RecipeID:    recipeID,
			PotionID:    potionID,
			Quantity:    quantity,
			Timestamp:   time.Now().Unix(),
		},
		Metadata: map[string]any{
			MetadataKeySource:   "crafting",
			MetadataKeyUserID:   userID,
			MetadataKeyQuantity: quantity,
		},
	}
}

// NewExchangeEvent creates an exchange.created, exchange.accepted or exchange.cancelled event.
// userID is the acting user: the creator for create and cancel, the acceptor for accept.
func NewExchangeEvent(t Type, req domain.ExchangeRequest, userID, characterID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: domain.ExchangePayload{
			RequestID:    req.ID,
			UserID:       userID,
			CharacterID:  characterID,
			FromCurrency: req.FromCurrency,
			FromAmount:   req.FromAmount,
			ToCurrency:   req.ToCurrency,
			ToAmount:     req.ToAmount,
			Timestamp:    time.Now().Unix(),
		},
		Metadata: map[string]any{
			MetadataKeySource: "exchange",
			MetadataKeyUserID: userID,
		},
	}
}

// NewShopItemPurchasedEvent creates a shop.item_purchased event
func NewShopItemPurchasedEvent(shopID, itemID, userID, characterID string, quantity int, total domain.Currency) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ShopItemPurchased,
		Payload: domain.ShopItemPurchasedPayload{
			ShopID:      shopID,
			ItemID:      itemID,
			UserID:      userID,
			CharacterID: characterID,
			Quantity:    quantity,
			Total:       total,
			Timestamp:   time.Now().Unix(),
		},
		Metadata: map[string]any{
			MetadataKeySource:   "shop",
			MetadataKeyUserID:   userID,
			MetadataKeyQuantity: quantity,
		},
	}
}

// NewShopItemRestockedEvent creates a shop.item_restocked event
func NewShopItemRestockedEvent(shopID, itemID string, quantity int, cost domain.Currency) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ShopItemRestocked,
		Payload: domain.ShopItemRestockedPayload{
			ShopID:    shopID,
			ItemID:    itemID,
			Quantity:  quantity,
			Cost:      cost,
			Timestamp: time.Now().Unix(),
		},
		Metadata: map[string]any{
			MetadataKeySource:   "shop",
			MetadataKeyQuantity: quantity,
		},
	}
}

// NewShopTillWithdrawnEvent creates a shop.till_withdrawn event
func NewShopTillWithdrawnEvent(shopID, userID, characterID string, amount domain.Currency) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ShopTillWithdrawn,
		Payload: domain.ShopTillWithdrawnPayload{
			ShopID:      shopID,
			UserID:      userID,
			CharacterID: characterID,
			Amount:      amount,
			Timestamp:   time.Now().Unix(),
		},
		Metadata: map[string]any{
			MetadataKeySource: "shop",
			MetadataKeyUserID: userID,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Publisher is the narrow side of a Bus that services depend on
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers.
// Handlers run synchronously in subscription order.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// NopPublisher drops every event. Used where no bus is configured.
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, Event) error { return nil }
