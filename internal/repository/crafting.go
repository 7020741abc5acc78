package repository

import (
	"context"
)

// Crafting defines the persistence crafting needs
type Crafting interface {
	// BeginTx starts a transaction for crafting operations
	BeginTx(ctx context.Context) (CraftingTx, error)
}

// CraftingTx defines the interface for crafting transactions
type CraftingTx interface {
	Tx
	UserTx
}
