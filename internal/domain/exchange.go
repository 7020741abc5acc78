package domain

import "time"

// ExchangeRequest is an open offer to swap currencies. The offered amount is
// held in escrow (already removed from the creator) for as long as the request exists.
type ExchangeRequest struct {
	ID                   string       `json:"id"`
	CreatorUserID        string       `json:"creator_user_id"`
	CreatorCharacterID   string       `json:"creator_character_id"`
	CreatorCharacterName string       `json:"creator_character_name"`
	FromCurrency         Denomination `json:"from_currency"`
	FromAmount           int64        `json:"from_amount"`
	ToCurrency           Denomination `json:"to_currency"`
	ToAmount             int64        `json:"to_amount"`
	CreatedAt            time.Time    `json:"created_at"`
}

// Escrow is the amount held for the request.
func (r ExchangeRequest) Escrow() Currency {
	return Single(r.FromCurrency, r.FromAmount)
}

// Payment is the amount the acceptor pays to the creator.
func (r ExchangeRequest) Payment() Currency {
	return Single(r.ToCurrency, r.ToAmount)
}
