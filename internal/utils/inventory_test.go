package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
)

func sampleInventory() domain.Inventory {
	return domain.Inventory{
		domain.CategoryIngredient: {
			{ID: "moonpetal", Name: "Moonpetal", Quantity: 3},
			{ID: "ember_salt", Name: "Ember Salt", Quantity: 1},
		},
		domain.CategoryDocument: {
			{ID: "guild_permit", Name: "Guild Permit", Quantity: 1},
		},
	}
}

// TestFindStack verifies stack lookup within a category
func TestFindStack(t *testing.T) {
	inv := sampleInventory()

	t.Run("finds existing stack", func(t *testing.T) {
		idx, qty := FindStack(inv, domain.CategoryIngredient, "ember_salt")
		assert.Equal(t, 1, idx)
		assert.Equal(t, 1, qty)
	})

	t.Run("returns -1 and 0 when absent", func(t *testing.T) {
		idx, qty := FindStack(inv, domain.CategoryIngredient, "dragon_scale")
		assert.Equal(t, -1, idx)
		assert.Equal(t, 0, qty)
	})

	t.Run("does not look in other categories", func(t *testing.T) {
		idx, _ := FindStack(inv, domain.CategoryIngredient, "guild_permit")
		assert.Equal(t, -1, idx)
		assert.True(t, HasItem(inv, "guild_permit"))
	})

	t.Run("handles nil inventory", func(t *testing.T) {
		idx, qty := FindStack(nil, domain.CategoryPotion, "x")
		assert.Equal(t, -1, idx)
		assert.Equal(t, 0, qty)
	})
}

func TestAddToStack(t *testing.T) {
	t.Run("merges into existing stack", func(t *testing.T) {
		inv := sampleInventory()
		AddToStack(inv, domain.CategoryIngredient, domain.InventoryItem{ID: "moonpetal"}, 2)
		assert.Equal(t, 5, CountItem(inv, domain.CategoryIngredient, "moonpetal"))
		assert.Len(t, inv[domain.CategoryIngredient], 2)
	})

	t.Run("opens new stack and new category", func(t *testing.T) {
		inv := sampleInventory()
		AddToStack(inv, domain.CategoryPotion, domain.InventoryItem{ID: "tonic", Name: "Tonic", Quantity: 99}, 1)
		require.Len(t, inv[domain.CategoryPotion], 1)
		assert.Equal(t, 1, inv[domain.CategoryPotion][0].Quantity, "Quantity on the template is overwritten")
		assert.Equal(t, "Tonic", inv[domain.CategoryPotion][0].Name)
	})

	t.Run("ignores non-positive quantity", func(t *testing.T) {
		inv := sampleInventory()
		AddToStack(inv, domain.CategoryPotion, domain.InventoryItem{ID: "tonic"}, 0)
		_, ok := inv[domain.CategoryPotion]
		assert.False(t, ok)
	})
}

func TestRemoveFromStack(t *testing.T) {
	t.Run("decrements stack", func(t *testing.T) {
		inv := sampleInventory()
		require.NoError(t, RemoveFromStack(inv, domain.CategoryIngredient, "moonpetal", 2))
		assert.Equal(t, 1, CountItem(inv, domain.CategoryIngredient, "moonpetal"))
	})

	t.Run("prunes exhausted stack", func(t *testing.T) {
		inv := sampleInventory()
		require.NoError(t, RemoveFromStack(inv, domain.CategoryIngredient, "ember_salt", 1))
		idx, _ := FindStack(inv, domain.CategoryIngredient, "ember_salt")
		assert.Equal(t, -1, idx)
		assert.Len(t, inv[domain.CategoryIngredient], 1)
	})

	t.Run("drops empty category", func(t *testing.T) {
		inv := sampleInventory()
		require.NoError(t, RemoveFromStack(inv, domain.CategoryDocument, "guild_permit", 1))
		_, ok := inv[domain.CategoryDocument]
		assert.False(t, ok)
	})

	t.Run("fails without mutating when short", func(t *testing.T) {
		inv := sampleInventory()
		err := RemoveFromStack(inv, domain.CategoryIngredient, "moonpetal", 4)
		assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
		assert.Equal(t, sampleInventory(), inv)
	})

	t.Run("fails for absent item", func(t *testing.T) {
		inv := sampleInventory()
		err := RemoveFromStack(inv, domain.CategoryIngredient, "dragon_scale", 1)
		assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	})
}

func TestPruneEmpty(t *testing.T) {
	inv := domain.Inventory{
		domain.CategoryItem:   {{ID: "a", Quantity: 0}, {ID: "b", Quantity: 2}},
		domain.CategoryPotion: {{ID: "c", Quantity: 0}},
	}
	PruneEmpty(inv)
	assert.Equal(t, domain.Inventory{domain.CategoryItem: {{ID: "b", Quantity: 2}}}, inv)
}
