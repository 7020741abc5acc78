package handler

import (
	"context"
	"net/http"

	"github.com/osse101/Hearthmarket_Go/internal/concurrency"
	"github.com/osse101/Hearthmarket_Go/internal/crafting"
	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
)

// BrewResponse carries the caller's user aggregate after the brew
type BrewResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// HandleBrewPotion handles brewing a potion from submitted ingredients
// @Summary Brew a potion
// @Description Consume ingredients from one of the caller's characters and add the matching potion
// @Tags alchemy
// @Accept json
// @Produce json
// @Param request body crafting.BrewRequest true "Brew details"
// @Success 200 {object} BrewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/alchemy/brew [post]
func HandleBrewPotion(svc crafting.Service, policy concurrency.RetryPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}

		var req crafting.BrewRequest
		if err := DecodeAndValidateRequest(r, w, &req, opBrewPotion); err != nil {
			return
		}

		user, err := runMutation(r.Context(), policy, opBrewPotion, func(ctx context.Context) (*domain.User, error) {
			return svc.BrewPotion(ctx, userID, req)
		})
		if err != nil {
			respondServiceError(w, r, opBrewPotion, err)
			return
		}

		logger.FromContext(r.Context()).Info("Potion brewed", logger.AttrKeyCharacterID, req.CharacterID)
		respondJSON(w, http.StatusOK, BrewResponse{Message: MsgPotionBrewed, User: user})
	}
}

// HandleGetRecipes lists the recipe book
// @Summary List recipes
// @Description Returns every recipe with its ingredients and heat window
// @Tags alchemy
// @Produce json
// @Success 200 {array} domain.Recipe
// @Router /api/v1/alchemy/recipes [get]
func HandleGetRecipes(svc crafting.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.ListRecipes(r.Context()))
	}
}
