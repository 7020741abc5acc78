package exchange

import (
	"fmt"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/utils"
	"github.com/osse101/Hearthmarket_Go/internal/validation"
)

type ratesFile struct {
	Version string                        `json:"version"`
	Rates   map[domain.Denomination]int64 `json:"rates"`
}

// LoadRates reads the exchange rate table, checks it against schemaPath and validates it.
func LoadRates(path, schemaPath string) (domain.ExchangeRates, error) {
	resolved, err := validation.ResolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("exchange rates: %w", err)
	}
	if err := validation.NewSchemaValidator().ValidateFile(resolved, schemaPath); err != nil {
		return nil, fmt.Errorf("exchange rates: %w", err)
	}
	file, err := utils.ReadJSONFile[ratesFile](resolved)
	if err != nil {
		return nil, fmt.Errorf("exchange rates: %w", err)
	}
	rates := domain.ExchangeRates(file.Rates)
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return rates, nil
}
