package crafting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
	"github.com/osse101/Hearthmarket_Go/internal/utils"
	"github.com/osse101/Hearthmarket_Go/internal/validation"
)

// Catalog is the read-only recipe table plus the potion definitions used to
// open new potion stacks. Build it with NewCatalog or LoadCatalog.
type Catalog struct {
	Version     string          `json:"version"`
	Description string          `json:"description,omitempty"`
	Recipes     []domain.Recipe `json:"recipes"`
	Potions     []domain.Potion `json:"potions"`

	potions map[string]domain.Potion
}

// DuplicateMultiset names two recipes with identical components.
type DuplicateMultiset struct {
	FirstID  string
	SecondID string
}

// NewCatalog indexes and validates recipes and potions.
func NewCatalog(recipes []domain.Recipe, potions []domain.Potion) (*Catalog, error) {
	c := &Catalog{Recipes: recipes, Potions: potions}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCatalog reads a recipe catalog file, checks it against schemaPath and validates it.
func LoadCatalog(path, schemaPath string) (*Catalog, error) {
	resolved, err := validation.ResolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("recipe catalog: %w", err)
	}
	if err := validation.NewSchemaValidator().ValidateFile(resolved, schemaPath); err != nil {
		return nil, fmt.Errorf("recipe catalog: %w", err)
	}

	c, err := utils.ReadJSONFile[Catalog](resolved)
	if err != nil {
		return nil, fmt.Errorf("recipe catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}

	for _, dup := range c.DuplicateMultisets() {
		logger.Warn(LogMsgDuplicateMultiset, "first", dup.FirstID, "second", dup.SecondID)
	}
	logger.Info(LogMsgCatalogLoaded, "path", resolved, "recipes", len(c.Recipes), "potions", len(c.Potions))
	return &c, nil
}

func (c *Catalog) index() error {
	c.potions = make(map[string]domain.Potion, len(c.Potions))
	for _, p := range c.Potions {
		if p.ID == "" {
			return fmt.Errorf("%w: potion with empty id", domain.ErrCatalogInconsistent)
		}
		if _, dup := c.potions[p.ID]; dup {
			return fmt.Errorf("%w: duplicate potion %q", domain.ErrCatalogInconsistent, p.ID)
		}
		c.potions[p.ID] = p
	}
	return c.Validate()
}

// Validate rejects recipes that could never brew correctly.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Recipes))
	for _, r := range c.Recipes {
		if r.ID == "" {
			return fmt.Errorf("%w: recipe with empty id", domain.ErrCatalogInconsistent)
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: duplicate recipe id %q", domain.ErrCatalogInconsistent, r.ID)
		}
		seen[r.ID] = true

		if len(r.Components) == 0 {
			return fmt.Errorf("%w: recipe %q has no components", domain.ErrCatalogInconsistent, r.ID)
		}
		ids := make(map[string]bool, len(r.Components))
		for _, comp := range r.Components {
			if comp.IngredientID == "" || comp.Qty <= 0 {
				return fmt.Errorf("%w: recipe %q has an invalid component", domain.ErrCatalogInconsistent, r.ID)
			}
			if ids[comp.IngredientID] {
				return fmt.Errorf("%w: recipe %q lists %q twice", domain.ErrCatalogInconsistent, r.ID, comp.IngredientID)
			}
			ids[comp.IngredientID] = true
		}
		if r.MinHeat < 0 || r.MaxHeat > domain.MaxHeatLevel {
			return fmt.Errorf("%w: recipe %q heat window %d-%d is outside 0-%d", domain.ErrCatalogInconsistent, r.ID, r.MinHeat, r.MaxHeat, domain.MaxHeatLevel)
		}
		if r.MinHeat > r.MaxHeat {
			return fmt.Errorf("%w: recipe %q heat window %d-%d is empty", domain.ErrCatalogInconsistent, r.ID, r.MinHeat, r.MaxHeat)
		}
		if r.OutputQty < 1 {
			return fmt.Errorf("%w: recipe %q produces nothing", domain.ErrCatalogInconsistent, r.ID)
		}
		if _, ok := c.potions[r.ResultPotionID]; !ok {
			return fmt.Errorf("%w: recipe %q yields unknown potion %q", domain.ErrCatalogInconsistent, r.ID, r.ResultPotionID)
		}
	}
	return nil
}

// Potion looks up a potion definition.
func (c *Catalog) Potion(id string) (domain.Potion, bool) {
	p, ok := c.potions[id]
	return p, ok
}

// DuplicateMultisets reports recipe pairs that no brew can tell apart.
func (c *Catalog) DuplicateMultisets() []DuplicateMultiset {
	var out []DuplicateMultiset
	firstByKey := make(map[string]string, len(c.Recipes))
	for _, r := range c.Recipes {
		key := multisetKey(componentMultiset(r.Components))
		if first, ok := firstByKey[key]; ok {
			out = append(out, DuplicateMultiset{FirstID: first, SecondID: r.ID})
			continue
		}
		firstByKey[key] = r.ID
	}
	return out
}

func componentMultiset(components []domain.RecipeComponent) map[string]int {
	m := make(map[string]int, len(components))
	for _, comp := range components {
		m[comp.IngredientID] += comp.Qty
	}
	return m
}

func multisetKey(m map[string]int) string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(m[id]))
		b.WriteByte(';')
	}
	return b.String()
}
