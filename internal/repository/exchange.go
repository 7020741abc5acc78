package repository

import (
	"context"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
)

// Exchange defines the persistence for the currency order book
type Exchange interface {
	// ListExchangeRequests returns open requests, oldest first
	ListExchangeRequests(ctx context.Context) ([]domain.ExchangeRequest, error)
	BeginTx(ctx context.Context) (ExchangeTx, error)
}

// ExchangeTx defines the interface for exchange transactions
type ExchangeTx interface {
	Tx
	UserTx
	// GetExchangeRequestForUpdate returns domain.ErrExchangeRequestNotFound once the request is gone
	GetExchangeRequestForUpdate(ctx context.Context, requestID string) (*domain.ExchangeRequest, error)
	InsertExchangeRequest(ctx context.Context, req *domain.ExchangeRequest) error
	DeleteExchangeRequest(ctx context.Context, requestID string) error
}
