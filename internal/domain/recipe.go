package domain

// RecipeComponent is one required ingredient and its quantity.
type RecipeComponent struct {
	IngredientID string `json:"ingredientId"`
	Qty          int    `json:"qty"`
}

// Recipe turns an exact ingredient multiset brewed within a heat window into a potion.
type Recipe struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Components     []RecipeComponent `json:"components"`
	MinHeat        int               `json:"minHeat"`
	MaxHeat        int               `json:"maxHeat"`
	ResultPotionID string            `json:"resultPotionId"`
	OutputQty      int               `json:"outputQty"`
}

// Potion is the catalog definition used when a brewed potion opens a new stack.
type Potion struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Ingredient is one line of a brew submission.
type Ingredient struct {
	IngredientID string `json:"ingredientId" validate:"required,max=100"`
	Qty          int    `json:"qty" validate:"min=1"`
}
