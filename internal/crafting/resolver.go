package crafting

import (
	"fmt"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
)

// MergeIngredients folds a submission into a multiset, summing repeated ids.
func MergeIngredients(submitted []domain.Ingredient) (map[string]int, error) {
	if len(submitted) == 0 {
		return nil, fmt.Errorf("%w: no ingredients submitted", domain.ErrInvalidInput)
	}
	m := make(map[string]int, len(submitted))
	for _, ing := range submitted {
		if ing.IngredientID == "" {
			return nil, fmt.Errorf("%w: ingredient id is required", domain.ErrInvalidInput)
		}
		if ing.Qty < 1 {
			return nil, fmt.Errorf("%w: ingredient %s quantity must be at least 1", domain.ErrInvalidInput, ing.IngredientID)
		}
		m[ing.IngredientID] += ing.Qty
	}
	return m, nil
}

// MatchRecipe returns the first recipe whose components equal the submitted
// multiset exactly. Order does not matter; subsets and supersets never match.
func MatchRecipe(submitted []domain.Ingredient, catalog *Catalog) (*domain.Recipe, error) {
	want, err := MergeIngredients(submitted)
	if err != nil {
		return nil, err
	}

	for i := range catalog.Recipes {
		if sameMultiset(want, componentMultiset(catalog.Recipes[i].Components)) {
			return &catalog.Recipes[i], nil
		}
	}
	return nil, domain.ErrRecipeNotFound
}

func sameMultiset(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for id, qty := range a {
		if b[id] != qty {
			return false
		}
	}
	return true
}

// ValidateHeat accepts heat within the recipe's inclusive window.
func ValidateHeat(recipe *domain.Recipe, heat int) error {
	if heat < recipe.MinHeat || heat > recipe.MaxHeat {
		return fmt.Errorf("%w: %s needs heat between %d and %d, got %d",
			domain.ErrHeatOutOfRange, recipe.Name, recipe.MinHeat, recipe.MaxHeat, heat)
	}
	return nil
}
