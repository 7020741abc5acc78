package repository

import (
	"context"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
)

// Seeder writes fixture documents outside of any economy transaction.
// Used by the admin CLI and by tests.
type Seeder interface {
	UpsertUser(ctx context.Context, user *domain.User) error
	UpsertShop(ctx context.Context, shop *domain.Shop) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}
