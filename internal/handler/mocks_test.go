package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/Hearthmarket_Go/internal/auth"
	"github.com/osse101/Hearthmarket_Go/internal/concurrency"
	"github.com/osse101/Hearthmarket_Go/internal/crafting"
	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/exchange"
	"github.com/osse101/Hearthmarket_Go/internal/shop"
)

var testPolicy = concurrency.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

type MockCraftingService struct {
	mock.Mock
}

func (m *MockCraftingService) BrewPotion(ctx context.Context, userID string, req crafting.BrewRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockCraftingService) ListRecipes(ctx context.Context) []domain.Recipe {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Recipe)
}

type MockExchangeService struct {
	mock.Mock
}

func (m *MockExchangeService) Create(ctx context.Context, userID string, req exchange.CreateRequest) (*domain.ExchangeRequest, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRequest), args.Error(1)
}

func (m *MockExchangeService) Accept(ctx context.Context, userID string, req exchange.AcceptRequest) (*domain.ExchangeRequest, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRequest), args.Error(1)
}

func (m *MockExchangeService) Cancel(ctx context.Context, userID, requestID string) (*domain.ExchangeRequest, error) {
	args := m.Called(ctx, userID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRequest), args.Error(1)
}

func (m *MockExchangeService) List(ctx context.Context) ([]domain.ExchangeRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRequest), args.Error(1)
}

func (m *MockExchangeService) Quote(from, to string, amount int64) (float64, error) {
	args := m.Called(from, to, amount)
	return args.Get(0).(float64), args.Error(1)
}

type MockShopService struct {
	mock.Mock
}

func (m *MockShopService) Purchase(ctx context.Context, buyerUserID string, req shop.PurchaseRequest) (*shop.PurchaseResult, error) {
	args := m.Called(ctx, buyerUserID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.PurchaseResult), args.Error(1)
}

func (m *MockShopService) Restock(ctx context.Context, userID string, req shop.RestockRequest) (*shop.RestockResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.RestockResult), args.Error(1)
}

func (m *MockShopService) WithdrawTill(ctx context.Context, userID, shopID string) (domain.Currency, error) {
	args := m.Called(ctx, userID, shopID)
	return args.Get(0).(domain.Currency), args.Error(1)
}

func (m *MockShopService) GetShop(ctx context.Context, shopID string, includeHidden bool) (*domain.Shop, error) {
	args := m.Called(ctx, shopID, includeHidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shop), args.Error(1)
}

// newRequest builds a request as the router would hand it over: with the
// caller identity attached and chi URL params populated.
func newRequest(method, target, body, userID string, params map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	ctx := req.Context()
	if userID != "" {
		ctx = auth.WithIdentity(ctx, &auth.Identity{UserID: userID})
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}
