package domain

// Shop defaults
const (
	// DefaultRestockQuantity is used when the restock catalog has no entry for an item
	DefaultRestockQuantity = 5
)

// Request bounds
const (
	MaxIngredientsPerBrew = 32
	MaxPurchaseQuantity   = 999

	// MaxHeatLevel is also the "maximum" of minHeat/maxHeat in the recipe schema
	MaxHeatLevel = 1000
)
