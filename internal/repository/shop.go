package repository

import (
	"context"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
)

// Shop defines the persistence for player shops
type Shop interface {
	GetShop(ctx context.Context, shopID string) (*domain.Shop, error)
	BeginTx(ctx context.Context) (ShopTx, error)
}

// ShopTx defines the interface for shop transactions
type ShopTx interface {
	Tx
	UserTx
	GetShopForUpdate(ctx context.Context, shopID string) (*domain.Shop, error)
	UpdateShop(ctx context.Context, shop *domain.Shop) error
}
