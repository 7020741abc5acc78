package shop

import (
	"fmt"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
	"github.com/osse101/Hearthmarket_Go/internal/utils"
	"github.com/osse101/Hearthmarket_Go/internal/validation"
)

// ItemRestock is the quantity a sold-out item is reset to
type ItemRestock struct {
	ItemID          string `json:"itemId"`
	RestockQuantity int    `json:"restockQuantity"`
}

// ShopRestock lists per-item restock quantities for one shop
type ShopRestock struct {
	ShopID string        `json:"shopId"`
	Items  []ItemRestock `json:"items"`
}

// RestockCatalog holds restock quantities. Items without an entry use
// DefaultRestockQuantity.
type RestockCatalog struct {
	Version                string        `json:"version"`
	DefaultRestockQuantity int           `json:"defaultRestockQuantity,omitempty"`
	Shops                  []ShopRestock `json:"shops"`

	index map[string]map[string]int
}

// LoadRestockCatalog reads the restock catalog and checks it against schemaPath.
func LoadRestockCatalog(path, schemaPath string) (*RestockCatalog, error) {
	resolved, err := validation.ResolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("restock catalog: %w", err)
	}
	if err := validation.NewSchemaValidator().ValidateFile(resolved, schemaPath); err != nil {
		return nil, fmt.Errorf("restock catalog: %w", err)
	}
	c, err := utils.ReadJSONFile[RestockCatalog](resolved)
	if err != nil {
		return nil, fmt.Errorf("restock catalog: %w", err)
	}
	c.buildIndex()
	logger.Info(LogMsgCatalogLoaded, "path", resolved, "shops", len(c.Shops))
	return &c, nil
}

// NewRestockCatalog builds a catalog in code, mostly for tests.
func NewRestockCatalog(shops ...ShopRestock) *RestockCatalog {
	c := &RestockCatalog{Shops: shops}
	c.buildIndex()
	return c
}

func (c *RestockCatalog) buildIndex() {
	c.index = make(map[string]map[string]int, len(c.Shops))
	for _, s := range c.Shops {
		items := make(map[string]int, len(s.Items))
		for _, it := range s.Items {
			items[it.ItemID] = it.RestockQuantity
		}
		c.index[s.ShopID] = items
	}
}

// QuantityFor returns the restock quantity for an item. A nil catalog is valid.
func (c *RestockCatalog) QuantityFor(shopID, itemID string) int {
	if c != nil {
		if q, ok := c.index[shopID][itemID]; ok && q > 0 {
			return q
		}
		if c.DefaultRestockQuantity > 0 {
			return c.DefaultRestockQuantity
		}
	}
	return domain.DefaultRestockQuantity
}
