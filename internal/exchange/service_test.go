package exchange

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Hearthmarket_Go/internal/concurrency"
	"github.com/osse101/Hearthmarket_Go/internal/database/memory"
	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/event"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu    sync.Mutex
	types []event.Type
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, e.Type)
	return nil
}

func (p *recordingPublisher) Types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Type(nil), p.types...)
}

type failingRepo struct {
	err error
}

func (r failingRepo) ListExchangeRequests(context.Context) ([]domain.ExchangeRequest, error) {
	return nil, r.err
}

func (r failingRepo) BeginTx(context.Context) (repository.ExchangeTx, error) {
	return nil, r.err
}

func seedTraders(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.UpsertUser(ctx, &domain.User{
		ID: "alice",
		Characters: []domain.Character{
			{ID: "mira", Name: "Mira", Balance: domain.Currency{Gold: 10, Silver: 5}},
			{ID: "wren", Name: "Wren", Balance: domain.Currency{Silver: 100}},
		},
	}))
	require.NoError(t, store.UpsertUser(ctx, &domain.User{
		ID:         "bram",
		Characters: []domain.Character{{ID: "tor", Name: "Tor", Balance: domain.Currency{Silver: 50}}},
	}))
	require.NoError(t, store.UpsertUser(ctx, &domain.User{
		ID:         "cora",
		Characters: []domain.Character{{ID: "ivy", Name: "Ivy", Balance: domain.Currency{Silver: 50}}},
	}))
}

func balance(t *testing.T, store *memory.Store, userID, characterID string) domain.Currency {
	t.Helper()
	u, err := store.GetUser(context.Background(), userID)
	require.NoError(t, err)
	c, ok := u.FindCharacter(characterID)
	require.True(t, ok)
	return c.Balance
}

func totalMoney(t *testing.T, store *memory.Store) domain.Currency {
	t.Helper()
	var sum domain.Currency
	for _, id := range []string{"alice", "bram", "cora"} {
		u, err := store.GetUser(context.Background(), id)
		require.NoError(t, err)
		for _, c := range u.Characters {
			sum = domain.Add(sum, c.Balance)
		}
	}
	requests, err := store.ListExchangeRequests(context.Background())
	require.NoError(t, err)
	for _, r := range requests {
		sum = domain.Add(sum, r.Escrow())
	}
	return sum
}

func newTestService(store *memory.Store, pub event.Publisher) Service {
	n := 0
	return NewService(store.Exchange(), nil, pub,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("req-%d", n)
		}),
	)
}

func goldForSilver() CreateRequest {
	return CreateRequest{CharacterID: "mira", FromCurrency: "gold", FromAmount: 4, ToCurrency: "silver", ToAmount: 30}
}

func TestCreate_EscrowsOffer(t *testing.T) {
	store := memory.NewStore()
	seedTraders(t, store)
	pub := &recordingPublisher{}
	svc := newTestService(store, pub)

	req, err := svc.Create(context.Background(), "alice", goldForSilver())
	require.NoError(t, err)

	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, "Mira", req.CreatorCharacterName)
	assert.Equal(t, domain.DenomGold, req.FromCurrency)
	assert.Equal(t, fixedNow, req.CreatedAt)
	assert.Equal(t, domain.Currency{Gold: 6, Silver: 5}, balance(t, store, "alice", "mira"))

	open, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, *req, open[0])
	assert.Equal(t, []event.Type{event.ExchangeCreated}, pub.Types())
}

func TestCreate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		req     CreateRequest
		wantErr error
	}{
		{"insufficient funds", "alice", CreateRequest{CharacterID: "mira", FromCurrency: "gold", FromAmount: 11, ToCurrency: "silver", ToAmount: 1}, domain.ErrInsufficientFunds},
		{"no borrowing across denominations", "alice", CreateRequest{CharacterID: "wren", FromCurrency: "gold", FromAmount: 1, ToCurrency: "silver", ToAmount: 1}, domain.ErrInsufficientFunds},
		{"zero amount", "alice", CreateRequest{CharacterID: "mira", FromCurrency: "gold", FromAmount: 0, ToCurrency: "silver", ToAmount: 1}, domain.ErrInvalidInput},
		{"negative price", "alice", CreateRequest{CharacterID: "mira", FromCurrency: "gold", FromAmount: 1, ToCurrency: "silver", ToAmount: -1}, domain.ErrInvalidInput},
		{"amount above cap", "alice", CreateRequest{CharacterID: "mira", FromCurrency: "gold", FromAmount: 1, ToCurrency: "silver", ToAmount: domain.MaxAmount + 1}, domain.ErrInvalidInput},
		{"unknown currency", "alice", CreateRequest{CharacterID: "mira", FromCurrency: "doubloon", FromAmount: 1, ToCurrency: "silver", ToAmount: 1}, domain.ErrInvalidCurrency},
		{"same currency", "alice", CreateRequest{CharacterID: "mira", FromCurrency: "gold", FromAmount: 1, ToCurrency: "gold", ToAmount: 2}, domain.ErrInvalidInput},
		{"unknown character", "alice", CreateRequest{CharacterID: "ghost", FromCurrency: "gold", FromAmount: 1, ToCurrency: "silver", ToAmount: 1}, domain.ErrCharacterNotFound},
		{"unknown user", "nobody", goldForSilver(), domain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			seedTraders(t, store)
			svc := newTestService(store, nil)

			_, err := svc.Create(context.Background(), tt.userID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, domain.Currency{Gold: 10, Silver: 5}, balance(t, store, "alice", "mira"))
			assert.Equal(t, domain.Currency{Silver: 100}, balance(t, store, "alice", "wren"))
			open, err := svc.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, open)
		})
	}
}

func TestCreateThenCancel_RestoresBalance(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedTraders(t, store)
	pub := &recordingPublisher{}
	svc := newTestService(store, pub)
	before := balance(t, store, "alice", "mira")

	req, err := svc.Create(ctx, "alice", goldForSilver())
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, "alice", req.ID)
	require.NoError(t, err)

	assert.Equal(t, before, balance(t, store, "alice", "mira"))
	open, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
	assert.Equal(t, []event.Type{event.ExchangeCreated, event.ExchangeCancelled}, pub.Types())

	_, err = svc.Cancel(ctx, "alice", req.ID)
	assert.ErrorIs(t, err, domain.ErrExchangeRequestNotFound)
}

func TestCancel_OnlyCreator(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedTraders(t, store)
	svc := newTestService(store, nil)

	req, err := svc.Create(ctx, "alice", goldForSilver())
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, "bram", req.ID)
	assert.ErrorIs(t, err, domain.ErrNotRequestOwner)
	assert.Equal(t, domain.KindPermissionDenied, domain.KindOf(err))

	open, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestCreateThenAccept_ConservesCurrency(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedTraders(t, store)
	pub := &recordingPublisher{}
	svc := newTestService(store, pub)
	total := totalMoney(t, store)

	req, err := svc.Create(ctx, "alice", goldForSilver())
	require.NoError(t, err)
	assert.Equal(t, total, totalMoney(t, store), "escrow counts toward the total")

	_, err = svc.Accept(ctx, "bram", AcceptRequest{RequestID: req.ID, CharacterID: "tor"})
	require.NoError(t, err)

	assert.Equal(t, domain.Currency{Gold: 6, Silver: 35}, balance(t, store, "alice", "mira"))
	assert.Equal(t, domain.Currency{Gold: 4, Silver: 20}, balance(t, store, "bram", "tor"))
	assert.Equal(t, total, totalMoney(t, store))
	assert.Equal(t, []event.Type{event.ExchangeCreated, event.ExchangeAccepted}, pub.Types())

	_, err = svc.Accept(ctx, "cora", AcceptRequest{RequestID: req.ID, CharacterID: "ivy"})
	assert.ErrorIs(t, err, domain.ErrExchangeRequestNotFound)
}

func TestAccept_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		charID  string
		wantErr error
	}{
		{"creator character", "alice", "mira", domain.ErrCannotAcceptOwnRequest},
		{"insufficient funds", "cora", "ivy", domain.ErrInsufficientFunds},
		{"unknown character", "bram", "ghost", domain.ErrCharacterNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewStore()
			seedTraders(t, store)
			svc := newTestService(store, nil)

			req, err := svc.Create(ctx, "alice", CreateRequest{CharacterID: "mira", FromCurrency: "gold", FromAmount: 1, ToCurrency: "silver", ToAmount: 60})
			require.NoError(t, err)

			_, err = svc.Accept(ctx, tt.userID, AcceptRequest{RequestID: req.ID, CharacterID: tt.charID})
			assert.ErrorIs(t, err, tt.wantErr)

			open, err := svc.List(ctx)
			require.NoError(t, err)
			assert.Len(t, open, 1, "request stays open")
			assert.Equal(t, domain.Currency{Silver: 50}, balance(t, store, "cora", "ivy"))
		})
	}
}

func TestAccept_SameUserOtherCharacter(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedTraders(t, store)
	svc := newTestService(store, nil)

	req, err := svc.Create(ctx, "alice", goldForSilver())
	require.NoError(t, err)
	_, err = svc.Accept(ctx, "alice", AcceptRequest{RequestID: req.ID, CharacterID: "wren"})
	require.NoError(t, err)

	assert.Equal(t, domain.Currency{Gold: 6, Silver: 35}, balance(t, store, "alice", "mira"))
	assert.Equal(t, domain.Currency{Gold: 4, Silver: 70}, balance(t, store, "alice", "wren"))
}

func TestAccept_CreatorCharacterDeleted(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedTraders(t, store)
	svc := newTestService(store, nil)

	req, err := svc.Create(ctx, "alice", goldForSilver())
	require.NoError(t, err)

	u, err := store.GetUser(ctx, "alice")
	require.NoError(t, err)
	u.Characters = u.Characters[1:]
	require.NoError(t, store.UpsertUser(ctx, u))

	_, err = svc.Accept(ctx, "bram", AcceptRequest{RequestID: req.ID, CharacterID: "tor"})
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
	assert.Equal(t, domain.Currency{Silver: 50}, balance(t, store, "bram", "tor"))
}

func TestAccept_ConcurrentAcceptorsOneWins(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedTraders(t, store)
	svc := newTestService(store, nil)
	total := totalMoney(t, store)

	req, err := svc.Create(ctx, "alice", goldForSilver())
	require.NoError(t, err)

	policy := concurrency.RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond}
	acceptors := []struct{ user, char string }{{"bram", "tor"}, {"cora", "ivy"}}
	errs := make([]error, len(acceptors))

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, a := range acceptors {
		wg.Add(1)
		go func(i int, user, char string) {
			defer wg.Done()
			<-start
			errs[i] = concurrency.RetryOnConflict(ctx, policy, "accept", func(ctx context.Context) error {
				_, err := svc.Accept(ctx, user, AcceptRequest{RequestID: req.ID, CharacterID: char})
				return err
			})
		}(i, a.user, a.char)
	}
	close(start)
	wg.Wait()

	var wins, notFound int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrExchangeRequestNotFound):
			notFound++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, notFound)
	assert.Equal(t, total, totalMoney(t, store))
}

func TestBeginTxFailure(t *testing.T) {
	boom := errors.New("pool closed")
	svc := NewService(failingRepo{err: boom}, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", goldForSilver())
	assert.ErrorIs(t, err, boom)
	_, err = svc.Accept(ctx, "bram", AcceptRequest{RequestID: "r", CharacterID: "tor"})
	assert.ErrorIs(t, err, boom)
	_, err = svc.Cancel(ctx, "alice", "r")
	assert.ErrorIs(t, err, boom)
	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestQuote(t *testing.T) {
	svc := NewService(memory.NewStore().Exchange(), nil, nil)

	tests := []struct {
		from, to string
		amount   int64
		want     float64
		wantErr  error
	}{
		{"gold", "copper", 3, 300, nil},
		{"copper", "gold", 250, 2.5, nil},
		{"Platinum", "silver", 1, 100, nil},
		{"gold", "mithril", 1, 0, domain.ErrInvalidCurrency},
		{"gold", "silver", -1, 0, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		got, err := svc.Quote(tt.from, tt.to, tt.amount)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr)
			continue
		}
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9)
	}
}
