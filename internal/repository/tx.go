package repository

import (
	"context"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
)

// Tx defines the interface for transactional operations.
// Any method may return domain.ErrTransactionConflict, most often Commit.
// After a conflict nothing has been written and the transaction must be discarded.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UserTx reads and rewrites whole user aggregates inside a transaction
type UserTx interface {
	// GetUserForUpdate reads the user and registers it in the transaction's read set
	GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error)
	// UpdateUser rewrites the user, including every embedded character
	UpdateUser(ctx context.Context, user *domain.User) error
}
