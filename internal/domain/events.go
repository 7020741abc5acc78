package domain

// Event type constants used for event bus subscriptions and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "potion.brewed")
const (
	// EventTypePotionBrewed is published after a brew commits
	EventTypePotionBrewed = "potion.brewed"

	EventTypeExchangeCreated   = "exchange.created"
	EventTypeExchangeAccepted  = "exchange.accepted"
	EventTypeExchangeCancelled = "exchange.cancelled"

	EventTypeShopItemPurchased = "shop.item_purchased"
	EventTypeShopItemRestocked = "shop.item_restocked"
	EventTypeShopTillWithdrawn = "shop.till_withdrawn"
)
