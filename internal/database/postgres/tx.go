package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
)

// economyTx implements every repository transaction interface over one pgx.Tx
type economyTx struct {
	tx pgx.Tx
}

var (
	_ repository.CraftingTx = (*economyTx)(nil)
	_ repository.ExchangeTx = (*economyTx)(nil)
	_ repository.ShopTx     = (*economyTx)(nil)
)

// Commit commits the transaction
func (t *economyTx) Commit(ctx context.Context) error {
	return mapTxError(ErrMsgFailedToCommitTransaction, t.tx.Commit(ctx))
}

// Rollback rolls back the transaction
func (t *economyTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *economyTx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(ctx, t.tx, selectUserSQL+` FOR UPDATE`, userID)
}

func (t *economyTx) UpdateUser(ctx context.Context, user *domain.User) error {
	characters, err := encodeJSON(nonNilCharacters(user.Characters))
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx,
		`UPDATE users SET characters = $2, updated_at = NOW() WHERE user_id = $1`,
		user.ID, characters)
	if err != nil {
		return mapTxError("failed to update user", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, user.ID)
	}
	return nil
}

func (t *economyTx) GetShopForUpdate(ctx context.Context, shopID string) (*domain.Shop, error) {
	return scanShop(ctx, t.tx, selectShopSQL+` FOR UPDATE`, shopID)
}

func (t *economyTx) UpdateShop(ctx context.Context, shop *domain.Shop) error {
	bank, err := encodeJSON(shop.BankAccount)
	if err != nil {
		return err
	}
	items, err := encodeJSON(nonNilItems(shop.Items))
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx,
		`UPDATE shops SET bank_account = $2, items = $3, updated_at = NOW() WHERE shop_id = $1`,
		shop.ID, bank, items)
	if err != nil {
		return mapTxError("failed to update shop", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrShopNotFound, shop.ID)
	}
	return nil
}

func (t *economyTx) GetExchangeRequestForUpdate(ctx context.Context, requestID string) (*domain.ExchangeRequest, error) {
	row := t.tx.QueryRow(ctx, selectExchangeRequestSQL+` WHERE request_id::text = $1 FOR UPDATE`, requestID)
	req, err := scanExchangeRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrExchangeRequestNotFound, requestID)
	}
	if err != nil {
		return nil, mapTxError("failed to load exchange request", err)
	}
	return req, nil
}

func (t *economyTx) InsertExchangeRequest(ctx context.Context, req *domain.ExchangeRequest) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO exchange_requests
			(request_id, creator_user_id, creator_character_id, creator_character_name,
			 from_currency, from_amount, to_currency, to_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		req.ID, req.CreatorUserID, req.CreatorCharacterID, req.CreatorCharacterName,
		string(req.FromCurrency), req.FromAmount, string(req.ToCurrency), req.ToAmount, req.CreatedAt)
	return mapTxError("failed to insert exchange request", err)
}

func (t *economyTx) DeleteExchangeRequest(ctx context.Context, requestID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM exchange_requests WHERE request_id::text = $1`, requestID)
	if err != nil {
		return mapTxError("failed to delete exchange request", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrExchangeRequestNotFound, requestID)
	}
	return nil
}
