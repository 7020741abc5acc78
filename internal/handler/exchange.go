package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/osse101/Hearthmarket_Go/internal/concurrency"
	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/exchange"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
)

// ExchangeResponse wraps one exchange request with a status message
type ExchangeResponse struct {
	Message string                  `json:"message"`
	Request *domain.ExchangeRequest `json:"request"`
}

// QuoteQuery holds the parsed quote parameters
type QuoteQuery struct {
	From   string `json:"from" validate:"required,denomination"`
	To     string `json:"to" validate:"required,denomination"`
	Amount int64  `json:"amount" validate:"min=0"`
}

// QuoteResponse is the converted value of Amount
type QuoteResponse struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount int64   `json:"amount"`
	Value  float64 `json:"value"`
}

// HandleCreateExchange handles posting a new exchange request
// @Summary Create exchange request
// @Description Escrow coins from one of the caller's characters and list the offer
// @Tags exchange
// @Accept json
// @Produce json
// @Param request body exchange.CreateRequest true "Offer"
// @Success 201 {object} ExchangeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/exchange/requests [post]
func HandleCreateExchange(svc exchange.Service, policy concurrency.RetryPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}

		var req exchange.CreateRequest
		if err := DecodeAndValidateRequest(r, w, &req, opCreateExchange); err != nil {
			return
		}

		created, err := runMutation(r.Context(), policy, opCreateExchange, func(ctx context.Context) (*domain.ExchangeRequest, error) {
			return svc.Create(ctx, userID, req)
		})
		if err != nil {
			respondServiceError(w, r, opCreateExchange, err)
			return
		}

		logger.FromContext(r.Context()).Info("Exchange request created", logger.AttrKeyExchangeRequestID, created.ID)
		respondJSON(w, http.StatusCreated, ExchangeResponse{Message: MsgExchangeCreated, Request: created})
	}
}

// HandleListExchanges lists open exchange requests
// @Summary List exchange requests
// @Description Returns every open request, oldest first
// @Tags exchange
// @Produce json
// @Success 200 {array} domain.ExchangeRequest
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/exchange/requests [get]
func HandleListExchanges(svc exchange.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, err := svc.List(r.Context())
		if err != nil {
			respondServiceError(w, r, opListExchange, err)
			return
		}
		if requests == nil {
			requests = []domain.ExchangeRequest{}
		}
		respondJSON(w, http.StatusOK, requests)
	}
}

// HandleAcceptExchange handles filling an open exchange request
// @Summary Accept exchange request
// @Description Pay the asked coins from one of the caller's characters and receive the escrow
// @Tags exchange
// @Accept json
// @Produce json
// @Param requestID path string true "Request ID"
// @Param request body exchange.AcceptRequest true "Accepting character"
// @Success 200 {object} ExchangeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/exchange/requests/{requestID}/accept [post]
func HandleAcceptExchange(svc exchange.Service, policy concurrency.RetryPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}
		requestID, ok := GetPathParam(r, w, ParamRequestID)
		if !ok {
			return
		}

		var req exchange.AcceptRequest
		if err := DecodeAndValidateRequest(r, w, &req, opAcceptExchange); err != nil {
			return
		}
		req.RequestID = requestID

		accepted, err := runMutation(r.Context(), policy, opAcceptExchange, func(ctx context.Context) (*domain.ExchangeRequest, error) {
			return svc.Accept(ctx, userID, req)
		})
		if err != nil {
			respondServiceError(w, r, opAcceptExchange, err)
			return
		}

		logger.FromContext(r.Context()).Info("Exchange request accepted", logger.AttrKeyExchangeRequestID, requestID)
		respondJSON(w, http.StatusOK, ExchangeResponse{Message: MsgExchangeAccepted, Request: accepted})
	}
}

// HandleCancelExchange handles withdrawing an open exchange request
// @Summary Cancel exchange request
// @Description Return the escrow to the creator and remove the request
// @Tags exchange
// @Produce json
// @Param requestID path string true "Request ID"
// @Success 200 {object} ExchangeResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/exchange/requests/{requestID}/cancel [post]
func HandleCancelExchange(svc exchange.Service, policy concurrency.RetryPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}
		requestID, ok := GetPathParam(r, w, ParamRequestID)
		if !ok {
			return
		}

		cancelled, err := runMutation(r.Context(), policy, opCancelExchange, func(ctx context.Context) (*domain.ExchangeRequest, error) {
			return svc.Cancel(ctx, userID, requestID)
		})
		if err != nil {
			respondServiceError(w, r, opCancelExchange, err)
			return
		}

		logger.FromContext(r.Context()).Info("Exchange request cancelled", logger.AttrKeyExchangeRequestID, requestID)
		respondJSON(w, http.StatusOK, ExchangeResponse{Message: MsgExchangeCancelled, Request: cancelled})
	}
}

// HandleQuoteExchange converts an amount between denominations at the configured rates
// @Summary Quote a conversion
// @Tags exchange
// @Produce json
// @Param from query string true "Source denomination"
// @Param to query string true "Target denomination"
// @Param amount query int true "Amount of the source denomination"
// @Success 200 {object} QuoteResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/exchange/quote [get]
func HandleQuoteExchange(svc exchange.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := GetQueryParam(r, w, QueryFrom)
		if !ok {
			return
		}
		to, ok := GetQueryParam(r, w, QueryTo)
		if !ok {
			return
		}
		rawAmount, ok := GetQueryParam(r, w, QueryAmount)
		if !ok {
			return
		}
		amount, err := strconv.ParseInt(rawAmount, 10, 64)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:  ErrMsgInvalidRequestSummary,
				Code:   codeInvalidArgument,
				Fields: map[string]string{QueryAmount: "Must be a whole number"},
			})
			return
		}

		q := QuoteQuery{From: from, To: to, Amount: amount}
		if err := validateRequest(w, &q); err != nil {
			return
		}

		value, err := svc.Quote(q.From, q.To, q.Amount)
		if err != nil {
			respondServiceError(w, r, opQuoteExchange, err)
			return
		}
		respondJSON(w, http.StatusOK, QuoteResponse{From: q.From, To: q.To, Amount: q.Amount, Value: value})
	}
}
