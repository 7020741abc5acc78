package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/Hearthmarket_Go/internal/config"
	"github.com/osse101/Hearthmarket_Go/internal/crafting"
	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/exchange"
	"github.com/osse101/Hearthmarket_Go/internal/shop"
)

// Catalogs bundles the static JSON configuration the services are built from.
type Catalogs struct {
	Recipes *crafting.Catalog
	Restock *shop.RestockCatalog
	Rates   domain.ExchangeRates
}

// LoadCatalogs loads and schema-validates the recipe, restock and exchange rate
// catalogs named by cfg.
func LoadCatalogs(cfg *config.Config) (*Catalogs, error) {
	recipes, err := crafting.LoadCatalog(cfg.RecipesPath, config.SchemaPathRecipes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadRecipes, err)
	}

	restock, err := shop.LoadRestockCatalog(cfg.ShopsPath, config.SchemaPathShops)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadShops, err)
	}

	rates, err := exchange.LoadRates(cfg.ExchangeRatesPath, config.SchemaPathExchangeRates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadRates, err)
	}

	slog.Info(LogMsgCatalogsLoaded,
		"recipes", len(recipes.Recipes),
		"potions", len(recipes.Potions),
		"restock_shops", len(restock.Shops),
		"denominations", len(rates))

	return &Catalogs{Recipes: recipes, Restock: restock, Rates: rates}, nil
}
