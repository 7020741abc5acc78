package domain

// Shop is a player-run store with an embedded till and item list.
type Shop struct {
	ID               string     `json:"shop_id"`
	Name             string     `json:"name"`
	OwnerUserID      string     `json:"owner_user_id"`
	OwnerCharacterID string     `json:"owner_character_id"`
	BankAccount      Currency   `json:"bank_account"`
	Items            []ShopItem `json:"items"`
}

// ShopItem is a listing. A nil Quantity means unlimited stock.
type ShopItem struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Image            string   `json:"image,omitempty"`
	Category         string   `json:"category,omitempty"`
	Price            Currency `json:"price"`
	Quantity         *int     `json:"quantity,omitempty"`
	IsSinglePurchase bool     `json:"isSinglePurchase,omitempty"`
	IsHidden         bool     `json:"isHidden,omitempty"`
	RequiredDocument string   `json:"requiresDocument,omitempty"`
	ExcludedRaces    []string `json:"excludedRaces,omitempty"`
}

// Unlimited reports whether the listing never runs out.
func (i ShopItem) Unlimited() bool {
	return i.Quantity == nil
}

// InventoryCategory is where a purchased copy of the item is stored.
func (i ShopItem) InventoryCategory() string {
	if i.Category == "" {
		return CategoryItem
	}
	return i.Category
}

// ToInventoryItem converts the listing into the stack handed to a buyer.
func (i ShopItem) ToInventoryItem() InventoryItem {
	return InventoryItem{
		ID:               i.ID,
		Name:             i.Name,
		Description:      i.Description,
		Image:            i.Image,
		IsSinglePurchase: i.IsSinglePurchase,
		RequiredDocument: i.RequiredDocument,
		ExcludedRaces:    append([]string(nil), i.ExcludedRaces...),
	}
}

// FindItem returns a pointer into s.Items.
func (s *Shop) FindItem(itemID string) (*ShopItem, bool) {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return &s.Items[i], true
		}
	}
	return nil, false
}

// Clone deep-copies the shop.
func (s *Shop) Clone() *Shop {
	if s == nil {
		return nil
	}
	out := *s
	out.Items = make([]ShopItem, len(s.Items))
	for i, it := range s.Items {
		if it.Quantity != nil {
			q := *it.Quantity
			it.Quantity = &q
		}
		if it.ExcludedRaces != nil {
			it.ExcludedRaces = append([]string(nil), it.ExcludedRaces...)
		}
		out.Items[i] = it
	}
	return &out
}

// IntPtr is a small helper for building finite stock quantities.
func IntPtr(v int) *int {
	return &v
}
