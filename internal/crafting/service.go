package crafting

import (
	"context"
	"fmt"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/event"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
	"github.com/osse101/Hearthmarket_Go/internal/utils"
)

// BrewRequest is one attempt to brew a potion with one character
type BrewRequest struct {
	CharacterID string              `json:"characterId" validate:"required,max=100"`
	Ingredients []domain.Ingredient `json:"ingredients" validate:"required,min=1,max=32,dive"`
	HeatLevel   int                 `json:"heatLevel" validate:"min=0,max=1000"`
}

// Service defines the interface for crafting operations
type Service interface {
	BrewPotion(ctx context.Context, userID string, req BrewRequest) (*domain.User, error)
	ListRecipes(ctx context.Context) []domain.Recipe
}

type service struct {
	repo      repository.Crafting
	catalog   *Catalog
	publisher event.Publisher
}

// NewService creates a new crafting service
func NewService(repo repository.Crafting, catalog *Catalog, publisher event.Publisher) Service {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &service{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
	}
}

// ListRecipes returns a copy of the recipe table in catalog order
func (s *service) ListRecipes(_ context.Context) []domain.Recipe {
	out := make([]domain.Recipe, len(s.catalog.Recipes))
	copy(out, s.catalog.Recipes)
	return out
}

// BrewPotion consumes an exact recipe's ingredients from the character's
// ingredient category and grants the resulting potions, all in one transaction.
func (s *service) BrewPotion(ctx context.Context, userID string, req BrewRequest) (*domain.User, error) {
	log := logger.FromContext(ctx).With(logger.AttrKeyCharacterID, req.CharacterID)
	log.Info(LogMsgBrewCalled, "ingredients", len(req.Ingredients), "heat", req.HeatLevel)

	state := StatePending
	defer func() {
		if state != StateCommitted {
			log.Debug(LogMsgBrewState, "state", StateAborted, "reached", state)
		}
	}()

	if req.CharacterID == "" {
		return nil, fmt.Errorf("%w: character id is required", domain.ErrInvalidInput)
	}
	if len(req.Ingredients) > domain.MaxIngredientsPerBrew {
		return nil, fmt.Errorf("%w: at most %d ingredient lines", domain.ErrInvalidInput, domain.MaxIngredientsPerBrew)
	}
	if req.HeatLevel < 0 || req.HeatLevel > domain.MaxHeatLevel {
		return nil, fmt.Errorf("%w: heat must be between 0 and %d", domain.ErrInvalidInput, domain.MaxHeatLevel)
	}

	if _, err := MergeIngredients(req.Ingredients); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	character, ok := user.FindCharacter(req.CharacterID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, req.CharacterID)
	}

	recipe, err := MatchRecipe(req.Ingredients, s.catalog)
	if err != nil {
		log.Warn(LogMsgBrewRejected, "error", err)
		return nil, err
	}
	if err := ValidateHeat(recipe, req.HeatLevel); err != nil {
		log.Warn(LogMsgBrewRejected, "recipe_id", recipe.ID, "error", err)
		return nil, err
	}
	potion, ok := s.catalog.Potion(recipe.ResultPotionID)
	if !ok {
		return nil, fmt.Errorf("%w: recipe %s yields unknown potion %s", domain.ErrCatalogInconsistent, recipe.ID, recipe.ResultPotionID)
	}

	character.Inventory = utils.EnsureInventory(character.Inventory)

	for _, comp := range recipe.Components {
		have := utils.CountItem(character.Inventory, domain.CategoryIngredient, comp.IngredientID)
		if have < comp.Qty {
			log.Warn(LogMsgBrewRejected, "recipe_id", recipe.ID, "ingredient", comp.IngredientID, "need", comp.Qty, "have", have)
			return nil, fmt.Errorf("%w: %s needs %d, has %d", domain.ErrInsufficientIngredient, comp.IngredientID, comp.Qty, have)
		}
	}
	state = StateIngredientsValidated
	log.Debug(LogMsgBrewState, "state", state, "recipe_id", recipe.ID)

	for _, comp := range recipe.Components {
		if err := utils.RemoveFromStack(character.Inventory, domain.CategoryIngredient, comp.IngredientID, comp.Qty); err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientIngredient, err.Error())
		}
	}
	state = StateIngredientsConsumed
	log.Debug(LogMsgBrewState, "state", state)

	utils.AddToStack(character.Inventory, domain.CategoryPotion, domain.InventoryItem{
		ID:          potion.ID,
		Name:        potion.Name,
		Description: potion.Description,
		Image:       potion.Image,
	}, recipe.OutputQty)
	state = StatePotionGranted
	log.Debug(LogMsgBrewState, "state", state, "potion_id", potion.ID, "quantity", recipe.OutputQty)

	if err := tx.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}
	state = StateCommitted
	log.Debug(LogMsgBrewState, "state", state)

	log.Info(LogMsgPotionBrewed, "recipe_id", recipe.ID, "potion_id", potion.ID, "quantity", recipe.OutputQty)
	if err := s.publisher.Publish(ctx, event.NewPotionBrewedEvent(userID, req.CharacterID, recipe.ID, potion.ID, recipe.OutputQty)); err != nil {
		log.Warn(LogMsgPublishFailed, "error", err)
	}

	return user, nil
}
