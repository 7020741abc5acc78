package utils

import (
	"fmt"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
)

// FindStack finds the stack with the given item ID in one category.
// Returns the index of the stack and the quantity found.
// Returns -1, 0 if not found.
func FindStack(inventory domain.Inventory, category, itemID string) (int, int) {
	for i, item := range inventory[category] {
		if item.ID == itemID {
			return i, item.Quantity
		}
	}
	return -1, 0
}

// CountItem returns the quantity held of itemID in category.
func CountItem(inventory domain.Inventory, category, itemID string) int {
	_, qty := FindStack(inventory, category, itemID)
	return qty
}

// HasItem reports whether itemID is held with positive quantity in any category.
func HasItem(inventory domain.Inventory, itemID string) bool {
	for _, items := range inventory {
		for _, item := range items {
			if item.ID == itemID && item.Quantity > 0 {
				return true
			}
		}
	}
	return false
}

// AddToStack merges qty copies of item into category, opening a new stack if needed.
// The caller must have initialised inventory (a nil map cannot be written).
func AddToStack(inventory domain.Inventory, category string, item domain.InventoryItem, qty int) {
	if qty <= 0 {
		return
	}
	if idx, _ := FindStack(inventory, category, item.ID); idx >= 0 {
		inventory[category][idx].Quantity += qty
		return
	}
	item.Quantity = qty
	inventory[category] = append(inventory[category], item)
}

// RemoveFromStack takes qty of itemID out of category. A stack that reaches
// zero is removed, and so is a category left with no stacks.
func RemoveFromStack(inventory domain.Inventory, category, itemID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrInvalidInput, qty)
	}
	idx, have := FindStack(inventory, category, itemID)
	if idx < 0 || have < qty {
		return fmt.Errorf("%w: %s needs %d, has %d", domain.ErrInsufficientQuantity, itemID, qty, have)
	}

	items := inventory[category]
	if have == qty {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity -= qty
	}

	if len(items) == 0 {
		delete(inventory, category)
	} else {
		inventory[category] = items
	}
	return nil
}

// PruneEmpty drops zero-quantity stacks and empty categories.
func PruneEmpty(inventory domain.Inventory) {
	for category, items := range inventory {
		kept := items[:0]
		for _, item := range items {
			if item.Quantity > 0 {
				kept = append(kept, item)
			}
		}
		if len(kept) == 0 {
			delete(inventory, category)
		} else {
			inventory[category] = kept
		}
	}
}

// EnsureInventory returns inv, or a fresh empty inventory when inv is nil.
func EnsureInventory(inv domain.Inventory) domain.Inventory {
	if inv == nil {
		return domain.Inventory{}
	}
	return inv
}
