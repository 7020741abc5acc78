// Package memory is an in-process document store with optimistic concurrency.
//
// Each document carries a version. A transaction reads deep copies and records
// the version it saw; writes are buffered. Commit re-checks every version under
// the store lock and fails with domain.ErrTransactionConflict if any document
// it read has since been changed or removed.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
)

type entry[T any] struct {
	doc     T
	version uint64
}

// Store implements the crafting, exchange and shop repositories in memory.
type Store struct {
	mu       sync.RWMutex
	seq      uint64
	users    map[string]entry[*domain.User]
	shops    map[string]entry[*domain.Shop]
	requests map[string]entry[*domain.ExchangeRequest]
}

var (
	_ repository.Crafting = craftingView{}
	_ repository.Exchange = exchangeView{}
	_ repository.Shop     = shopView{}
	_ repository.Seeder   = (*Store)(nil)
)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]entry[*domain.User]),
		shops:    make(map[string]entry[*domain.Shop]),
		requests: make(map[string]entry[*domain.ExchangeRequest]),
	}
}

func (s *Store) nextVersion() uint64 {
	s.seq++
	return s.seq
}

// UpsertUser stores a copy of user outside of any transaction.
func (s *Store) UpsertUser(_ context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = entry[*domain.User]{doc: user.Clone(), version: s.nextVersion()}
	return nil
}

// UpsertShop stores a copy of shop outside of any transaction.
func (s *Store) UpsertShop(_ context.Context, shop *domain.Shop) error {
	if shop == nil || shop.ID == "" {
		return fmt.Errorf("%w: shop id is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shops[shop.ID] = entry[*domain.Shop]{doc: shop.Clone(), version: s.nextVersion()}
	return nil
}

// GetUser returns a copy of the committed user.
func (s *Store) GetUser(_ context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return e.doc.Clone(), nil
}

// GetShop returns a copy of the committed shop.
func (s *Store) GetShop(_ context.Context, shopID string) (*domain.Shop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.shops[shopID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrShopNotFound, shopID)
	}
	return e.doc.Clone(), nil
}

// ListExchangeRequests returns open requests ordered by creation time.
func (s *Store) ListExchangeRequests(_ context.Context) ([]domain.ExchangeRequest, error) {
	s.mu.RLock()
	out := make([]domain.ExchangeRequest, 0, len(s.requests))
	for _, e := range s.requests {
		out = append(out, *e.doc)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) begin() *tx {
	return &tx{
		store:        s,
		userReads:    make(map[string]entry[*domain.User]),
		shopReads:    make(map[string]entry[*domain.Shop]),
		requestReads: make(map[string]entry[*domain.ExchangeRequest]),
		userWrites:   make(map[string]*domain.User),
		shopWrites:   make(map[string]*domain.Shop),
		inserts:      make(map[string]*domain.ExchangeRequest),
		deletes:      make(map[string]struct{}),
	}
}

// Crafting returns a view of the store satisfying repository.Crafting.
func (s *Store) Crafting() repository.Crafting {
	return craftingView{s}
}

// Exchange returns a view of the store satisfying repository.Exchange.
func (s *Store) Exchange() repository.Exchange {
	return exchangeView{s}
}

// Shops returns a view of the store satisfying repository.Shop.
func (s *Store) Shops() repository.Shop {
	return shopView{s}
}

type craftingView struct{ *Store }

func (v craftingView) BeginTx(_ context.Context) (repository.CraftingTx, error) {
	return v.begin(), nil
}

type exchangeView struct{ *Store }

func (v exchangeView) BeginTx(_ context.Context) (repository.ExchangeTx, error) {
	return v.begin(), nil
}

type shopView struct{ *Store }

func (v shopView) BeginTx(_ context.Context) (repository.ShopTx, error) {
	return v.begin(), nil
}

var errTxClosed = errors.New(domain.ErrMsgTxClosed)

type tx struct {
	store *Store
	done  bool

	userReads    map[string]entry[*domain.User]
	shopReads    map[string]entry[*domain.Shop]
	requestReads map[string]entry[*domain.ExchangeRequest]

	userWrites map[string]*domain.User
	shopWrites map[string]*domain.Shop
	inserts    map[string]*domain.ExchangeRequest
	deletes    map[string]struct{}
}

func (t *tx) GetUserForUpdate(_ context.Context, userID string) (*domain.User, error) {
	if t.done {
		return nil, errTxClosed
	}
	if u, ok := t.userWrites[userID]; ok {
		return u.Clone(), nil
	}
	if e, ok := t.userReads[userID]; ok {
		return e.doc.Clone(), nil
	}

	t.store.mu.RLock()
	e, ok := t.store.users[userID]
	t.store.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	snap := entry[*domain.User]{doc: e.doc.Clone(), version: e.version}
	t.userReads[userID] = snap
	return snap.doc.Clone(), nil
}

func (t *tx) UpdateUser(_ context.Context, user *domain.User) error {
	if t.done {
		return errTxClosed
	}
	t.userWrites[user.ID] = user.Clone()
	return nil
}

func (t *tx) GetShopForUpdate(_ context.Context, shopID string) (*domain.Shop, error) {
	if t.done {
		return nil, errTxClosed
	}
	if s, ok := t.shopWrites[shopID]; ok {
		return s.Clone(), nil
	}
	if e, ok := t.shopReads[shopID]; ok {
		return e.doc.Clone(), nil
	}

	t.store.mu.RLock()
	e, ok := t.store.shops[shopID]
	t.store.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrShopNotFound, shopID)
	}
	snap := entry[*domain.Shop]{doc: e.doc.Clone(), version: e.version}
	t.shopReads[shopID] = snap
	return snap.doc.Clone(), nil
}

func (t *tx) UpdateShop(_ context.Context, shop *domain.Shop) error {
	if t.done {
		return errTxClosed
	}
	t.shopWrites[shop.ID] = shop.Clone()
	return nil
}

func (t *tx) GetExchangeRequestForUpdate(_ context.Context, requestID string) (*domain.ExchangeRequest, error) {
	if t.done {
		return nil, errTxClosed
	}
	if _, gone := t.deletes[requestID]; gone {
		return nil, fmt.Errorf("%w: %s", domain.ErrExchangeRequestNotFound, requestID)
	}
	if r, ok := t.inserts[requestID]; ok {
		cp := *r
		return &cp, nil
	}
	if e, ok := t.requestReads[requestID]; ok {
		cp := *e.doc
		return &cp, nil
	}

	t.store.mu.RLock()
	e, ok := t.store.requests[requestID]
	t.store.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrExchangeRequestNotFound, requestID)
	}
	cp := *e.doc
	t.requestReads[requestID] = entry[*domain.ExchangeRequest]{doc: &cp, version: e.version}
	out := cp
	return &out, nil
}

func (t *tx) InsertExchangeRequest(_ context.Context, req *domain.ExchangeRequest) error {
	if t.done {
		return errTxClosed
	}
	cp := *req
	t.inserts[req.ID] = &cp
	return nil
}

func (t *tx) DeleteExchangeRequest(_ context.Context, requestID string) error {
	if t.done {
		return errTxClosed
	}
	if _, ok := t.inserts[requestID]; ok {
		delete(t.inserts, requestID)
		return nil
	}
	if _, ok := t.requestReads[requestID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrExchangeRequestNotFound, requestID)
	}
	t.deletes[requestID] = struct{}{}
	return nil
}

func (t *tx) Commit(_ context.Context) error {
	if t.done {
		return errTxClosed
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := t.validateLocked(); err != nil {
		return err
	}

	for id, u := range t.userWrites {
		s.users[id] = entry[*domain.User]{doc: u, version: s.nextVersion()}
	}
	for id, sh := range t.shopWrites {
		s.shops[id] = entry[*domain.Shop]{doc: sh, version: s.nextVersion()}
	}
	for id := range t.deletes {
		delete(s.requests, id)
	}
	for id, r := range t.inserts {
		s.requests[id] = entry[*domain.ExchangeRequest]{doc: r, version: s.nextVersion()}
	}
	return nil
}

func (t *tx) validateLocked() error {
	s := t.store
	for id, read := range t.userReads {
		if cur, ok := s.users[id]; !ok || cur.version != read.version {
			return fmt.Errorf("%w: user %s changed", domain.ErrTransactionConflict, id)
		}
	}
	for id, read := range t.shopReads {
		if cur, ok := s.shops[id]; !ok || cur.version != read.version {
			return fmt.Errorf("%w: shop %s changed", domain.ErrTransactionConflict, id)
		}
	}
	for id, read := range t.requestReads {
		if cur, ok := s.requests[id]; !ok || cur.version != read.version {
			return fmt.Errorf("%w: exchange request %s changed", domain.ErrTransactionConflict, id)
		}
	}
	for id := range t.inserts {
		if _, exists := s.requests[id]; exists {
			return fmt.Errorf("%w: exchange request %s already exists", domain.ErrTransactionConflict, id)
		}
	}
	return nil
}

func (t *tx) Rollback(_ context.Context) error {
	if t.done {
		return errTxClosed
	}
	t.done = true
	return nil
}
