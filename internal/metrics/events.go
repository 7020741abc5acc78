package metrics

import (
	"context"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/event"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all economy events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, eventType := range event.AllTypes() {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.PotionBrewed:
		var p domain.PotionBrewedPayload
		if p, err = event.DecodePayload[domain.PotionBrewedPayload](evt.Payload); err == nil {
			PotionsBrewed.WithLabelValues(p.RecipeID).Add(float64(p.Quantity))
		}

	case event.ExchangeCreated, event.ExchangeAccepted, event.ExchangeCancelled:
		var p domain.ExchangePayload
		if p, err = event.DecodePayload[domain.ExchangePayload](evt.Payload); err == nil {
			ExchangeRequests.WithLabelValues(exchangeAction(evt.Type)).Inc()
			if evt.Type == event.ExchangeAccepted {
				CurrencyTraded.WithLabelValues(string(p.FromCurrency)).Add(float64(p.FromAmount))
				CurrencyTraded.WithLabelValues(string(p.ToCurrency)).Add(float64(p.ToAmount))
			}
		}

	case event.ShopItemPurchased:
		var p domain.ShopItemPurchasedPayload
		if p, err = event.DecodePayload[domain.ShopItemPurchasedPayload](evt.Payload); err == nil {
			ShopPurchases.WithLabelValues(p.ShopID).Add(float64(p.Quantity))
		}

	case event.ShopItemRestocked:
		ShopRestocks.Inc()

	case event.ShopTillWithdrawn:
		TillWithdrawals.Inc()
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		logger.FromContext(ctx).Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
	}
	return nil
}

func exchangeAction(t event.Type) string {
	switch t {
	case event.ExchangeAccepted:
		return ActionAccepted
	case event.ExchangeCancelled:
		return ActionCancelled
	default:
		return ActionCreated
	}
}

// RecordConflict counts a transaction that still conflicted after its retries
func RecordConflict(operation string) {
	TransactionConflicts.WithLabelValues(operation).Inc()
}
