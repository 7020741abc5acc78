package crafting

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osse101/Hearthmarket_Go/internal/database/memory"
	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/event"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
)

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Events() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Event(nil), p.events...)
}

// failingRepo fails BeginTx with a fixed error
type failingRepo struct {
	err error
}

func (r failingRepo) BeginTx(context.Context) (repository.CraftingTx, error) {
	return nil, r.err
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(
		[]domain.Recipe{
			{
				ID: "minor_healing", Name: "Minor Healing",
				Components: []domain.RecipeComponent{
					{IngredientID: "redroot", Qty: 2},
					{IngredientID: "spring_water", Qty: 1},
				},
				MinHeat: 30, MaxHeat: 50, ResultPotionID: "potion_minor_healing", OutputQty: 1,
			},
			{
				ID: "greater_healing", Name: "Greater Healing",
				Components: []domain.RecipeComponent{
					{IngredientID: "redroot", Qty: 4},
					{IngredientID: "troll_moss", Qty: 1},
				},
				MinHeat: 60, MaxHeat: 75, ResultPotionID: "potion_greater_healing", OutputQty: 2,
			},
		},
		[]domain.Potion{
			{ID: "potion_minor_healing", Name: "Minor Healing Draught", Description: "Closes small wounds.", Image: "minor.png"},
			{ID: "potion_greater_healing", Name: "Greater Healing Draught"},
		},
	)
	require.NoError(t, err)
	return c
}

func seedAlchemist(t *testing.T, store *memory.Store, inv domain.Inventory) {
	t.Helper()
	require.NoError(t, store.UpsertUser(context.Background(), &domain.User{
		ID:       "u1",
		Username: "alice",
		Characters: []domain.Character{
			{ID: "c1", Name: "Mira", Race: "elf", Inventory: inv},
			{ID: "c2", Name: "Other", Inventory: domain.Inventory{}},
		},
	}))
}

func character(t *testing.T, store *memory.Store, characterID string) domain.Character {
	t.Helper()
	u, err := store.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	c, ok := u.FindCharacter(characterID)
	require.True(t, ok)
	return *c
}
