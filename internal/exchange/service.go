package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/event"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
)

// CreateRequest offers FromAmount of FromCurrency for ToAmount of ToCurrency
type CreateRequest struct {
	CharacterID  string `json:"characterId" validate:"required,max=100"`
	FromCurrency string `json:"fromCurrency" validate:"required,oneof=platinum gold silver copper"`
	FromAmount   int64  `json:"fromAmount" validate:"min=1,max=1000000000000"`
	ToCurrency   string `json:"toCurrency" validate:"required,oneof=platinum gold silver copper,nefield=FromCurrency"`
	ToAmount     int64  `json:"toAmount" validate:"min=1,max=1000000000000"`
}

// AcceptRequest fills an open request with one of the caller's characters
type AcceptRequest struct {
	RequestID   string `json:"-"`
	CharacterID string `json:"characterId" validate:"required,max=100"`
}

// Service defines the interface for the currency order book
type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*domain.ExchangeRequest, error)
	Accept(ctx context.Context, userID string, req AcceptRequest) (*domain.ExchangeRequest, error)
	Cancel(ctx context.Context, userID, requestID string) (*domain.ExchangeRequest, error)
	List(ctx context.Context) ([]domain.ExchangeRequest, error)
	Quote(from, to string, amount int64) (float64, error)
}

type service struct {
	repo      repository.Exchange
	rates     domain.ExchangeRates
	publisher event.Publisher
	now       func() time.Time
	newID     func() string
}

// Option customises the service
type Option func(*service)

// WithClock replaces time.Now for request timestamps
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithIDGenerator replaces the uuid v4 request id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *service) { s.newID = newID }
}

// NewService creates a new exchange service
func NewService(repo repository.Exchange, rates domain.ExchangeRates, publisher event.Publisher, opts ...Option) Service {
	if rates == nil {
		rates = domain.DefaultExchangeRates
	}
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	s := &service{
		repo:      repo,
		rates:     rates,
		publisher: publisher,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseOffer(req CreateRequest) (domain.Denomination, domain.Denomination, error) {
	from, err := domain.ParseDenomination(req.FromCurrency)
	if err != nil {
		return "", "", err
	}
	to, err := domain.ParseDenomination(req.ToCurrency)
	if err != nil {
		return "", "", err
	}
	if from == to {
		return "", "", fmt.Errorf("%w: cannot exchange %s for itself", domain.ErrInvalidInput, from)
	}
	if req.FromAmount <= 0 || req.ToAmount <= 0 {
		return "", "", fmt.Errorf("%w: amounts must be positive", domain.ErrInvalidInput)
	}
	if req.FromAmount > domain.MaxAmount || req.ToAmount > domain.MaxAmount {
		return "", "", fmt.Errorf("%w: amounts must not exceed %d", domain.ErrInvalidInput, domain.MaxAmount)
	}
	return from, to, nil
}

// Create moves the offered amount out of the creator's balance into escrow
// and opens the request.
func (s *service) Create(ctx context.Context, userID string, req CreateRequest) (*domain.ExchangeRequest, error) {
	log := logger.FromContext(ctx).With(logger.AttrKeyCharacterID, req.CharacterID)
	log.Info(LogMsgCreateCalled, "from", req.FromCurrency, "from_amount", req.FromAmount, "to", req.ToCurrency, "to_amount", req.ToAmount)

	if req.CharacterID == "" {
		return nil, fmt.Errorf("%w: character id is required", domain.ErrInvalidInput)
	}
	from, to, err := parseOffer(req)
	if err != nil {
		log.Warn(LogMsgRejected, "error", err)
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	character, ok := user.FindCharacter(req.CharacterID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, req.CharacterID)
	}

	request := &domain.ExchangeRequest{
		ID:                   s.newID(),
		CreatorUserID:        userID,
		CreatorCharacterID:   character.ID,
		CreatorCharacterName: character.Name,
		FromCurrency:         from,
		FromAmount:           req.FromAmount,
		ToCurrency:           to,
		ToAmount:             req.ToAmount,
		CreatedAt:            s.now().UTC(),
	}

	balance, err := domain.Debit(character.Balance, request.Escrow())
	if err != nil {
		log.Warn(LogMsgRejected, "error", err)
		return nil, err
	}
	character.Balance = balance

	if err := tx.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
	}
	if err := tx.InsertExchangeRequest(ctx, request); err != nil {
		return nil, fmt.Errorf(ErrMsgInsertRequestFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgRequestCreated, logger.AttrKeyExchangeRequestID, request.ID)
	s.publish(ctx, event.NewExchangeEvent(event.ExchangeCreated, *request, userID, character.ID))
	return request, nil
}

// Accept pays the creator and releases the escrow to the acceptor.
// When the acceptor and creator are the same user both sides are applied to
// one loaded aggregate, which is written once.
func (s *service) Accept(ctx context.Context, userID string, req AcceptRequest) (*domain.ExchangeRequest, error) {
	log := logger.FromContext(ctx).With(logger.AttrKeyExchangeRequestID, req.RequestID, logger.AttrKeyCharacterID, req.CharacterID)
	log.Info(LogMsgAcceptCalled)

	if req.RequestID == "" || req.CharacterID == "" {
		return nil, fmt.Errorf("%w: request id and character id are required", domain.ErrInvalidInput)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	request, err := tx.GetExchangeRequestForUpdate(ctx, req.RequestID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetRequestFailed, err)
	}
	if request.CreatorUserID == userID && request.CreatorCharacterID == req.CharacterID {
		log.Warn(LogMsgRejected, "error", domain.ErrCannotAcceptOwnRequest)
		return nil, domain.ErrCannotAcceptOwnRequest
	}

	acceptor, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	acceptingChar, ok := acceptor.FindCharacter(req.CharacterID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, req.CharacterID)
	}

	balance, err := domain.Debit(acceptingChar.Balance, request.Payment())
	if err != nil {
		log.Warn(LogMsgRejected, "error", err)
		return nil, err
	}
	if acceptingChar.Balance, err = domain.AddChecked(balance, request.Escrow()); err != nil {
		return nil, err
	}

	creator := acceptor
	if request.CreatorUserID != userID {
		creator, err = tx.GetUserForUpdate(ctx, request.CreatorUserID)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
		}
	}
	creatorChar, ok := creator.FindCharacter(request.CreatorCharacterID)
	if !ok {
		return nil, fmt.Errorf("%w: creator character %s", domain.ErrCharacterNotFound, request.CreatorCharacterID)
	}
	if creatorChar.Balance, err = domain.AddChecked(creatorChar.Balance, request.Payment()); err != nil {
		return nil, err
	}

	if err := tx.UpdateUser(ctx, acceptor); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
	}
	if creator != acceptor {
		if err := tx.UpdateUser(ctx, creator); err != nil {
			return nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
		}
	}
	if err := tx.DeleteExchangeRequest(ctx, request.ID); err != nil {
		return nil, fmt.Errorf(ErrMsgDeleteRequestFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgRequestAccepted, "creator_user_id", request.CreatorUserID)
	s.publish(ctx, event.NewExchangeEvent(event.ExchangeAccepted, *request, userID, req.CharacterID))
	return request, nil
}

// Cancel returns the escrow to the creator character and closes the request.
func (s *service) Cancel(ctx context.Context, userID, requestID string) (*domain.ExchangeRequest, error) {
	log := logger.FromContext(ctx).With(logger.AttrKeyExchangeRequestID, requestID)
	log.Info(LogMsgCancelCalled)

	if requestID == "" {
		return nil, fmt.Errorf("%w: request id is required", domain.ErrInvalidInput)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	request, err := tx.GetExchangeRequestForUpdate(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetRequestFailed, err)
	}
	if request.CreatorUserID != userID {
		log.Warn(LogMsgRejected, "error", domain.ErrNotRequestOwner)
		return nil, domain.ErrNotRequestOwner
	}

	creator, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	creatorChar, ok := creator.FindCharacter(request.CreatorCharacterID)
	if !ok {
		return nil, fmt.Errorf("%w: creator character %s", domain.ErrCharacterNotFound, request.CreatorCharacterID)
	}
	if creatorChar.Balance, err = domain.AddChecked(creatorChar.Balance, request.Escrow()); err != nil {
		return nil, err
	}

	if err := tx.UpdateUser(ctx, creator); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
	}
	if err := tx.DeleteExchangeRequest(ctx, request.ID); err != nil {
		return nil, fmt.Errorf(ErrMsgDeleteRequestFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgRequestCancelled)
	s.publish(ctx, event.NewExchangeEvent(event.ExchangeCancelled, *request, userID, request.CreatorCharacterID))
	return request, nil
}

// List returns open requests, oldest first
func (s *service) List(ctx context.Context) ([]domain.ExchangeRequest, error) {
	requests, err := s.repo.ListExchangeRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListRequestsFailed, err)
	}
	return requests, nil
}

// Quote converts amount of one denomination into another at the configured rates
func (s *service) Quote(from, to string, amount int64) (float64, error) {
	fromDenom, err := domain.ParseDenomination(from)
	if err != nil {
		return 0, err
	}
	toDenom, err := domain.ParseDenomination(to)
	if err != nil {
		return 0, err
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: amount must not be negative", domain.ErrInvalidInput)
	}
	return s.rates.Convert(amount, fromDenom, toDenom)
}

func (s *service) publish(ctx context.Context, e event.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", e.Type, "error", err)
	}
}
