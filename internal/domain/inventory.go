package domain

// Inventory category conventions. Categories are free-form strings; these are
// the ones the economy core writes to.
const (
	CategoryIngredient = "ingredient"
	CategoryPotion     = "potion"
	CategoryDocument   = "document"
	CategoryItem       = "item"
)

// InventoryItem is one stack in a character's inventory. Item IDs are unique
// within a category.
type InventoryItem struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Quantity         int      `json:"quantity"`
	Description      string   `json:"description,omitempty"`
	Image            string   `json:"image,omitempty"`
	IsHidden         bool     `json:"isHidden,omitempty"`
	IsSinglePurchase bool     `json:"isSinglePurchase,omitempty"`
	RequiredDocument string   `json:"requiresDocument,omitempty"`
	ExcludedRaces    []string `json:"excludedRaces,omitempty"`
}

// Inventory maps a category name to its item stacks.
type Inventory map[string][]InventoryItem

// Clone deep-copies the inventory.
func (inv Inventory) Clone() Inventory {
	if inv == nil {
		return nil
	}
	out := make(Inventory, len(inv))
	for cat, items := range inv {
		cp := make([]InventoryItem, len(items))
		for i, it := range items {
			if it.ExcludedRaces != nil {
				it.ExcludedRaces = append([]string(nil), it.ExcludedRaces...)
			}
			cp[i] = it
		}
		out[cat] = cp
	}
	return out
}
