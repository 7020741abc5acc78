package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
)

func fixtureUser(id string) *domain.User {
	return &domain.User{
		ID:       id,
		Username: id,
		Characters: []domain.Character{{
			ID:      id + "-char",
			Name:    "Aldric",
			Race:    "elf",
			Balance: domain.Currency{Gold: 20, Silver: 5},
			Inventory: domain.Inventory{
				domain.CategoryIngredient: {{ID: "moonpetal", Name: "Moonpetal", Quantity: 2}},
			},
		}},
	}
}

func TestUserRoundTrip(t *testing.T) {
	pool := requirePool(t)
	ctx := context.Background()
	seed := NewSeedRepository(pool)

	require.NoError(t, seed.UpsertUser(ctx, fixtureUser("u1")))

	tx, err := NewCraftingRepository(pool).BeginTx(ctx)
	require.NoError(t, err)
	u, err := tx.GetUserForUpdate(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, u.Characters, 1)
	assert.Equal(t, domain.Currency{Gold: 20, Silver: 5}, u.Characters[0].Balance)
	assert.Equal(t, 2, u.Characters[0].Inventory[domain.CategoryIngredient][0].Quantity)

	u.Characters[0].Balance.Gold = 1
	require.NoError(t, tx.UpdateUser(ctx, u))
	require.NoError(t, tx.Commit(ctx))

	got, err := seed.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Characters[0].Balance.Gold)

	_, err = seed.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestShopRoundTrip(t *testing.T) {
	pool := requirePool(t)
	ctx := context.Background()
	seed := NewSeedRepository(pool)
	shops := NewShopRepository(pool)

	require.NoError(t, seed.UpsertUser(ctx, fixtureUser("owner")))
	require.NoError(t, seed.UpsertShop(ctx, &domain.Shop{
		ID:               "apothecary",
		Name:             "Apothecary",
		OwnerUserID:      "owner",
		OwnerCharacterID: "owner-char",
		BankAccount:      domain.Currency{Gold: 3},
		Items: []domain.ShopItem{
			{ID: "tonic", Name: "Tonic", Price: domain.Currency{Gold: 2}, Quantity: domain.IntPtr(4)},
			{ID: "water", Name: "Water", Price: domain.Currency{Copper: 1}},
		},
	}))

	shop, err := shops.GetShop(ctx, "apothecary")
	require.NoError(t, err)
	require.Len(t, shop.Items, 2)
	require.NotNil(t, shop.Items[0].Quantity)
	assert.Equal(t, 4, *shop.Items[0].Quantity)
	assert.True(t, shop.Items[1].Unlimited(), "absent quantity must round-trip as unlimited")

	_, err = shops.GetShop(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrShopNotFound)
}

func TestExchangeRequestLifecycle(t *testing.T) {
	pool := requirePool(t)
	ctx := context.Background()
	repo := NewExchangeRepository(pool)
	require.NoError(t, NewSeedRepository(pool).UpsertUser(ctx, fixtureUser("u1")))

	id := uuid.NewString()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertExchangeRequest(ctx, &domain.ExchangeRequest{
		ID:                 id,
		CreatorUserID:      "u1",
		CreatorCharacterID: "u1-char",
		FromCurrency:       domain.DenomGold,
		FromAmount:         5,
		ToCurrency:         domain.DenomSilver,
		ToAmount:           50,
		CreatedAt:          time.Now().UTC(),
	}))
	require.NoError(t, tx.Commit(ctx))

	list, err := repo.ListExchangeRequests(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, domain.DenomGold, list[0].FromCurrency)

	tx, err = repo.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.GetExchangeRequestForUpdate(ctx, id)
	require.NoError(t, err)
	require.NoError(t, tx.DeleteExchangeRequest(ctx, id))
	require.NoError(t, tx.Commit(ctx))

	tx, err = repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)
	_, err = tx.GetExchangeRequestForUpdate(ctx, id)
	assert.ErrorIs(t, err, domain.ErrExchangeRequestNotFound)
}

func TestExchangeRequestRejectsNonPositiveAmounts(t *testing.T) {
	pool := requirePool(t)
	ctx := context.Background()
	require.NoError(t, NewSeedRepository(pool).UpsertUser(ctx, fixtureUser("u1")))

	tx, err := NewExchangeRepository(pool).BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = tx.InsertExchangeRequest(ctx, &domain.ExchangeRequest{
		ID: uuid.NewString(), CreatorUserID: "u1", CreatorCharacterID: "u1-char",
		FromCurrency: domain.DenomGold, FromAmount: 0, ToCurrency: domain.DenomSilver, ToAmount: 1,
		CreatedAt: time.Now(),
	})
	assert.Error(t, err)
}

// TestConcurrentWritersConflict shows that the second writer to a row gets ErrTransactionConflict
func TestConcurrentWritersConflict(t *testing.T) {
	pool := requirePool(t)
	ctx := context.Background()
	require.NoError(t, NewSeedRepository(pool).UpsertUser(ctx, fixtureUser("u1")))
	repo := NewCraftingRepository(pool)

	tx1, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	u1, err := tx1.GetUserForUpdate(ctx, "u1")
	require.NoError(t, err)

	tx2, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx2.Rollback(ctx)

	// tx2 blocks on the row lock until tx1 finishes
	second := make(chan error, 1)
	go func() {
		_, err := tx2.GetUserForUpdate(ctx, "u1")
		second <- err
	}()

	u1.Characters[0].Balance.Gold -= 5
	require.NoError(t, tx1.UpdateUser(ctx, u1))
	require.NoError(t, tx1.Commit(ctx))

	select {
	case err := <-second:
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTransactionConflict)
	case <-time.After(10 * time.Second):
		t.Fatal("second transaction never returned")
	}
}
