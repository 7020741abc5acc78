package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
)

// serializableTxOptions is used for every economy transaction. Combined with
// SELECT ... FOR UPDATE this makes concurrent writers to one document either
// queue behind each other or fail with a serialization error.
var serializableTxOptions = pgx.TxOptions{IsoLevel: pgx.Serializable}

// isConflict reports whether err is a retryable concurrency failure
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == PgErrorCodeSerializationFailure || pgErr.Code == PgErrorCodeDeadlockDetected
	}
	return false
}

// mapTxError translates driver concurrency failures into domain.ErrTransactionConflict
func mapTxError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isConflict(err) {
		return fmt.Errorf("%w: %s: %v", domain.ErrTransactionConflict, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func beginSerializable(ctx context.Context, db *pgxpool.Pool) (*economyTx, error) {
	tx, err := db.BeginTx(ctx, serializableTxOptions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &economyTx{tx: tx}, nil
}

func encodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToEncodeDocument, err)
	}
	return data, nil
}

func decodeJSON(data []byte, target any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDecodeDocument, err)
	}
	return nil
}

// queryer is satisfied by both the pool and an open transaction
type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	selectUserSQL = `SELECT user_id, username, characters, updated_at FROM users WHERE user_id = $1`
	selectShopSQL = `SELECT shop_id, name, owner_user_id, owner_character_id, bank_account, items FROM shops WHERE shop_id = $1`
)

func scanUser(ctx context.Context, q queryer, sql, userID string) (*domain.User, error) {
	var (
		u          domain.User
		characters []byte
	)
	err := q.QueryRow(ctx, sql, userID).Scan(&u.ID, &u.Username, &characters, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, mapTxError("failed to load user", err)
	}
	if err := decodeJSON(characters, &u.Characters); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanShop(ctx context.Context, q queryer, sql, shopID string) (*domain.Shop, error) {
	var (
		s           domain.Shop
		bankAccount []byte
		items       []byte
	)
	err := q.QueryRow(ctx, sql, shopID).Scan(&s.ID, &s.Name, &s.OwnerUserID, &s.OwnerCharacterID, &bankAccount, &items)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrShopNotFound, shopID)
	}
	if err != nil {
		return nil, mapTxError("failed to load shop", err)
	}
	if err := decodeJSON(bankAccount, &s.BankAccount); err != nil {
		return nil, err
	}
	if err := decodeJSON(items, &s.Items); err != nil {
		return nil, err
	}
	return &s, nil
}

func upsertUser(ctx context.Context, q queryer, user *domain.User) error {
	characters, err := encodeJSON(nonNilCharacters(user.Characters))
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		INSERT INTO users (user_id, username, characters, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username, characters = EXCLUDED.characters, updated_at = NOW()`,
		user.ID, user.Username, characters)
	return mapTxError("failed to save user", err)
}

func upsertShop(ctx context.Context, q queryer, shop *domain.Shop) error {
	bank, err := encodeJSON(shop.BankAccount)
	if err != nil {
		return err
	}
	items, err := encodeJSON(nonNilItems(shop.Items))
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		INSERT INTO shops (shop_id, name, owner_user_id, owner_character_id, bank_account, items, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (shop_id) DO UPDATE
		SET name = EXCLUDED.name,
		    owner_user_id = EXCLUDED.owner_user_id,
		    owner_character_id = EXCLUDED.owner_character_id,
		    bank_account = EXCLUDED.bank_account,
		    items = EXCLUDED.items,
		    updated_at = NOW()`,
		shop.ID, shop.Name, shop.OwnerUserID, shop.OwnerCharacterID, bank, items)
	return mapTxError("failed to save shop", err)
}

func nonNilCharacters(c []domain.Character) []domain.Character {
	if c == nil {
		return []domain.Character{}
	}
	return c
}

func nonNilItems(i []domain.ShopItem) []domain.ShopItem {
	if i == nil {
		return []domain.ShopItem{}
	}
	return i
}
