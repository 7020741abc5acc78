package crafting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Hearthmarket_Go/internal/database/memory"
	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/event"
	"github.com/osse101/Hearthmarket_Go/internal/utils"
)

func minorHealingRequest(heat int) BrewRequest {
	return BrewRequest{
		CharacterID: "c1",
		Ingredients: []domain.Ingredient{
			{IngredientID: "redroot", Qty: 2},
			{IngredientID: "spring_water", Qty: 1},
		},
		HeatLevel: heat,
	}
}

func TestBrewPotion_ConsumesAndGrants(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedAlchemist(t, store, domain.Inventory{
		domain.CategoryIngredient: {
			{ID: "redroot", Name: "Redroot", Quantity: 5},
			{ID: "spring_water", Name: "Spring Water", Quantity: 1},
		},
	})
	pub := &recordingPublisher{}
	svc := NewService(store.Crafting(), testCatalog(t), pub)

	user, err := svc.BrewPotion(ctx, "u1", minorHealingRequest(40))
	require.NoError(t, err)

	returned, ok := user.FindCharacter("c1")
	require.True(t, ok)
	assert.Equal(t, 3, utils.CountItem(returned.Inventory, domain.CategoryIngredient, "redroot"))

	stored := character(t, store, "c1")
	assert.Equal(t, 3, utils.CountItem(stored.Inventory, domain.CategoryIngredient, "redroot"))
	idx, _ := utils.FindStack(stored.Inventory, domain.CategoryIngredient, "spring_water")
	assert.Equal(t, -1, idx, "emptied stack is pruned")

	potions := stored.Inventory[domain.CategoryPotion]
	require.Len(t, potions, 1)
	assert.Equal(t, domain.InventoryItem{
		ID: "potion_minor_healing", Name: "Minor Healing Draught",
		Description: "Closes small wounds.", Image: "minor.png", Quantity: 1,
	}, potions[0])

	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, event.PotionBrewed, events[0].Type)
	payload := events[0].Payload.(domain.PotionBrewedPayload)
	assert.Equal(t, "minor_healing", payload.RecipeID)
	assert.Equal(t, 1, payload.Quantity)
}

func TestBrewPotion_MergesIntoExistingStack(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedAlchemist(t, store, domain.Inventory{
		domain.CategoryIngredient: {
			{ID: "redroot", Quantity: 4},
			{ID: "troll_moss", Quantity: 1},
		},
		domain.CategoryPotion: {{ID: "potion_greater_healing", Name: "Old label", Quantity: 3}},
	})
	svc := NewService(store.Crafting(), testCatalog(t), nil)

	_, err := svc.BrewPotion(ctx, "u1", BrewRequest{
		CharacterID: "c1",
		Ingredients: []domain.Ingredient{{IngredientID: "troll_moss", Qty: 1}, {IngredientID: "redroot", Qty: 4}},
		HeatLevel:   75,
	})
	require.NoError(t, err)

	stored := character(t, store, "c1")
	_, hasIngredients := stored.Inventory[domain.CategoryIngredient]
	assert.False(t, hasIngredients, "empty category is pruned")
	require.Len(t, stored.Inventory[domain.CategoryPotion], 1)
	assert.Equal(t, 5, stored.Inventory[domain.CategoryPotion][0].Quantity)
	assert.Equal(t, "Old label", stored.Inventory[domain.CategoryPotion][0].Name)
}

func TestBrewPotion_Rejections(t *testing.T) {
	baseInventory := func() domain.Inventory {
		return domain.Inventory{
			domain.CategoryIngredient: {
				{ID: "redroot", Quantity: 1},
				{ID: "spring_water", Quantity: 1},
			},
		}
	}

	tests := []struct {
		name    string
		userID  string
		req     BrewRequest
		wantErr error
	}{
		{"heat too low", "u1", minorHealingRequest(29), domain.ErrHeatOutOfRange},
		{"heat too high", "u1", minorHealingRequest(51), domain.ErrHeatOutOfRange},
		{"no recipe", "u1", BrewRequest{CharacterID: "c1", Ingredients: []domain.Ingredient{{IngredientID: "redroot", Qty: 9}}, HeatLevel: 40}, domain.ErrRecipeNotFound},
		{"insufficient ingredient", "u1", minorHealingRequest(40), domain.ErrInsufficientIngredient},
		{"unknown character", "u1", BrewRequest{CharacterID: "ghost", Ingredients: minorHealingRequest(40).Ingredients, HeatLevel: 40}, domain.ErrCharacterNotFound},
		{"unknown character wins over unknown recipe", "u1", BrewRequest{CharacterID: "ghost", Ingredients: []domain.Ingredient{{IngredientID: "redroot", Qty: 9}}, HeatLevel: 40}, domain.ErrCharacterNotFound},
		{"unknown character wins over bad heat", "u1", BrewRequest{CharacterID: "ghost", Ingredients: minorHealingRequest(40).Ingredients, HeatLevel: 99}, domain.ErrCharacterNotFound},
		{"unknown user", "nobody", minorHealingRequest(40), domain.ErrUserNotFound},
		{"missing character id", "u1", BrewRequest{Ingredients: minorHealingRequest(40).Ingredients, HeatLevel: 40}, domain.ErrInvalidInput},
		{"heat past the dial", "u1", minorHealingRequest(domain.MaxHeatLevel + 1), domain.ErrInvalidInput},
		{"empty ingredients", "u1", BrewRequest{CharacterID: "c1", HeatLevel: 40}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			seedAlchemist(t, store, baseInventory())
			pub := &recordingPublisher{}
			svc := NewService(store.Crafting(), testCatalog(t), pub)

			_, err := svc.BrewPotion(context.Background(), tt.userID, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, baseInventory(), character(t, store, "c1").Inventory, "inventory untouched")
			assert.Empty(t, pub.Events())
		})
	}
}

func TestBrewPotion_OnlyTouchesNamedCharacter(t *testing.T) {
	store := memory.NewStore()
	seedAlchemist(t, store, domain.Inventory{
		domain.CategoryIngredient: {{ID: "redroot", Quantity: 2}, {ID: "spring_water", Quantity: 1}},
	})
	svc := NewService(store.Crafting(), testCatalog(t), nil)

	_, err := svc.BrewPotion(context.Background(), "u1", minorHealingRequest(30))
	require.NoError(t, err)
	assert.Equal(t, domain.Inventory{}, character(t, store, "c2").Inventory)
}

func TestBrewPotion_BeginTxFailure(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(failingRepo{err: boom}, testCatalog(t), nil)

	_, err := svc.BrewPotion(context.Background(), "u1", minorHealingRequest(40))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestListRecipes_ReturnsCopy(t *testing.T) {
	catalog := testCatalog(t)
	svc := NewService(memory.NewStore().Crafting(), catalog, nil)

	recipes := svc.ListRecipes(context.Background())
	require.Len(t, recipes, 2)
	recipes[0].Name = "changed"
	assert.Equal(t, "Minor Healing", catalog.Recipes[0].Name)
}
