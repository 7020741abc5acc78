package domain

// PotionBrewedPayload is the event payload for potion.brewed events
type PotionBrewedPayload struct {
	UserID      string `json:"user_id"`
	CharacterID string `json:"character_id"`
	RecipeID    string `json:"recipe_id"`
	PotionID    string `json:"potion_id"`
	Quantity    int    `json:"quantity"`
	Timestamp   int64  `json:"timestamp"`
}

// ExchangePayload is shared by exchange.created, exchange.accepted and exchange.cancelled
type ExchangePayload struct {
	RequestID    string       `json:"request_id"`
	UserID       string       `json:"user_id"`
	CharacterID  string       `json:"character_id"`
	FromCurrency Denomination `json:"from_currency"`
	FromAmount   int64        `json:"from_amount"`
	ToCurrency   Denomination `json:"to_currency"`
	ToAmount     int64        `json:"to_amount"`
	Timestamp    int64        `json:"timestamp"`
}

// ShopItemPurchasedPayload is the event payload for shop.item_purchased events
type ShopItemPurchasedPayload struct {
	ShopID      string   `json:"shop_id"`
	ItemID      string   `json:"item_id"`
	UserID      string   `json:"user_id"`
	CharacterID string   `json:"character_id"`
	Quantity    int      `json:"quantity"`
	Total       Currency `json:"total"`
	Timestamp   int64    `json:"timestamp"`
}

// ShopItemRestockedPayload is the event payload for shop.item_restocked events
type ShopItemRestockedPayload struct {
	ShopID    string   `json:"shop_id"`
	ItemID    string   `json:"item_id"`
	Quantity  int      `json:"quantity"`
	Cost      Currency `json:"cost"`
	Timestamp int64    `json:"timestamp"`
}

// ShopTillWithdrawnPayload is the event payload for shop.till_withdrawn events
type ShopTillWithdrawnPayload struct {
	ShopID      string   `json:"shop_id"`
	UserID      string   `json:"user_id"`
	CharacterID string   `json:"character_id"`
	Amount      Currency `json:"amount"`
	Timestamp   int64    `json:"timestamp"`
}
