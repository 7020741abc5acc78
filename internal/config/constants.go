package config

const (
	// Configuration file paths
	ConfigPathRecipes       = "configs/recipes.json"
	ConfigPathShops         = "configs/shops.json"
	ConfigPathExchangeRates = "configs/exchange_rates.json"

	// JSON schemas the catalogs are validated against
	SchemaPathRecipes       = "configs/schemas/recipes.schema.json"
	SchemaPathShops         = "configs/schemas/shops.schema.json"
	SchemaPathExchangeRates = "configs/schemas/exchange_rates.schema.json"
)
