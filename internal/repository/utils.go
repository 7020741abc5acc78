package repository

import (
	"context"
	"errors"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error.
// Rolling back an already committed transaction is expected on the success path and is not logged.
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		if err.Error() != domain.ErrMsgTxClosed && !errors.Is(err, context.Canceled) {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
		}
	}
}
