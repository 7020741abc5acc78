package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Hearthmarket_Go/internal/repository"
)

// CraftingRepository implements repository.Crafting for PostgreSQL
type CraftingRepository struct {
	db *pgxpool.Pool
}

// NewCraftingRepository creates a new CraftingRepository
func NewCraftingRepository(db *pgxpool.Pool) *CraftingRepository {
	return &CraftingRepository{db: db}
}

// BeginTx starts a serializable transaction
func (r *CraftingRepository) BeginTx(ctx context.Context) (repository.CraftingTx, error) {
	tx, err := beginSerializable(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return tx, nil
}
