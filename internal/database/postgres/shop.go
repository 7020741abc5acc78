package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
)

// ShopRepository implements repository.Shop and repository.Seeder for PostgreSQL
type ShopRepository struct {
	db *pgxpool.Pool
}

// NewShopRepository creates a new ShopRepository
func NewShopRepository(db *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{db: db}
}

// BeginTx starts a serializable transaction
func (r *ShopRepository) BeginTx(ctx context.Context) (repository.ShopTx, error) {
	tx, err := beginSerializable(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// GetShop reads a shop without locking it
func (r *ShopRepository) GetShop(ctx context.Context, shopID string) (*domain.Shop, error) {
	return scanShop(ctx, r.db, selectShopSQL, shopID)
}
