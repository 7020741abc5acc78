package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
)

// SeedRepository writes fixture documents directly, outside economy transactions
type SeedRepository struct {
	db *pgxpool.Pool
}

var _ repository.Seeder = (*SeedRepository)(nil)

// NewSeedRepository creates a new SeedRepository
func NewSeedRepository(db *pgxpool.Pool) *SeedRepository {
	return &SeedRepository{db: db}
}

// UpsertUser inserts or replaces a user aggregate
func (r *SeedRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	return upsertUser(ctx, r.db, user)
}

// UpsertShop inserts or replaces a shop
func (r *SeedRepository) UpsertShop(ctx context.Context, shop *domain.Shop) error {
	return upsertShop(ctx, r.db, shop)
}

// GetUser reads a user aggregate without locking it
func (r *SeedRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(ctx, r.db, selectUserSQL, userID)
}
