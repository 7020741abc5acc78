package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
	"github.com/osse101/Hearthmarket_Go/internal/metrics"
)

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgMissingPathParam      = "Missing %s path parameter"
	ErrMsgUnauthenticated       = "Authentication required"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgConflictError       = "Another change got there first. Please try again."
	ErrMsgUserNotFoundError   = "User not found"
	ErrMsgCharacterNotFound   = "Character not found"
	ErrMsgShopNotFoundError   = "Shop not found"
	ErrMsgItemNotFoundError   = "Item not found"
	ErrMsgRequestNotFoundErr  = "Exchange request not found"
	ErrMsgRecipeNotFoundError = "No recipe uses exactly those ingredients"
	ErrMsgHeatOutOfRangeError = "The heat is wrong for this recipe"
	ErrMsgNotEnoughMoneyError = "Not enough money"
	ErrMsgTillTooLowError     = "The shop till cannot cover this"
	ErrMsgNothingToWithdraw   = "The till has nothing to withdraw"
	ErrMsgNotEnoughItemsError = "Not enough items"
	ErrMsgMissingIngredient   = "Missing or insufficient ingredient"
	ErrMsgOutOfStockError     = "Item is out of stock"
	ErrMsgAlreadyOwnedError   = "You already own this item"
	ErrMsgRaceExcludedError   = "This item is not sold to your race"
	ErrMsgMissingDocumentErr  = "You need a permit to buy this item"
	ErrMsgRestockNotAllowed   = "This item cannot be restocked"
	ErrMsgNotShopOwnerError   = "Only the shop owner can do that"
	ErrMsgNotRequestOwnerErr  = "Only the creator can cancel this request"
	ErrMsgAcceptOwnRequestErr = "You cannot accept a request with the character that made it"
	ErrMsgInvalidCurrencyErr  = "Unknown currency"
)

// Machine-readable codes for errors raised before a service is called
var (
	codeInvalidArgument = domain.KindInvalidArgument.String()
	codeUnauthenticated = domain.KindUnauthenticated.String()
)

// specificMessages gives a friendlier message for errors whose kind alone is too vague
var specificMessages = []struct {
	err error
	msg string
}{
	{domain.ErrUserNotFound, ErrMsgUserNotFoundError},
	{domain.ErrCharacterNotFound, ErrMsgCharacterNotFound},
	{domain.ErrShopNotFound, ErrMsgShopNotFoundError},
	{domain.ErrItemNotFound, ErrMsgItemNotFoundError},
	{domain.ErrExchangeRequestNotFound, ErrMsgRequestNotFoundErr},
	{domain.ErrRecipeNotFound, ErrMsgRecipeNotFoundError},
	{domain.ErrHeatOutOfRange, ErrMsgHeatOutOfRangeError},
	{domain.ErrInsufficientFunds, ErrMsgNotEnoughMoneyError},
	{domain.ErrInsufficientTillFunds, ErrMsgTillTooLowError},
	{domain.ErrNothingToWithdraw, ErrMsgNothingToWithdraw},
	{domain.ErrInsufficientIngredient, ErrMsgMissingIngredient},
	{domain.ErrInsufficientQuantity, ErrMsgNotEnoughItemsError},
	{domain.ErrOutOfStock, ErrMsgOutOfStockError},
	{domain.ErrAlreadyOwned, ErrMsgAlreadyOwnedError},
	{domain.ErrRaceExcluded, ErrMsgRaceExcludedError},
	{domain.ErrMissingDocument, ErrMsgMissingDocumentErr},
	{domain.ErrRestockNotAllowed, ErrMsgRestockNotAllowed},
	{domain.ErrNotShopOwner, ErrMsgNotShopOwnerError},
	{domain.ErrNotRequestOwner, ErrMsgNotRequestOwnerErr},
	{domain.ErrCannotAcceptOwnRequest, ErrMsgAcceptOwnRequestErr},
	{domain.ErrInvalidCurrency, ErrMsgInvalidCurrencyErr},
	{domain.ErrTransactionConflict, ErrMsgConflictError},
	{domain.ErrUnauthenticated, ErrMsgUnauthenticated},
}

// statusForKind maps an error kind onto an HTTP status code
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindFailedPrecondition, domain.KindConflict:
		return http.StatusConflict
	case domain.KindPermissionDenied:
		return http.StatusForbidden
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// mapServiceError converts a service error into a status code and a response body
// that never carries internal details
func mapServiceError(err error) (int, ErrorResponse) {
	kind := domain.KindOf(err)
	resp := ErrorResponse{
		Error:     ErrMsgGenericServerError,
		Code:      kind.String(),
		Retryable: kind == domain.KindConflict,
	}
	if kind == domain.KindInternal {
		return http.StatusInternalServerError, resp
	}

	for _, sm := range specificMessages {
		if errors.Is(err, sm.err) {
			resp.Error = sm.msg
			return statusForKind(kind), resp
		}
	}

	// Validation failures from the services carry a message written for the caller
	if kind == domain.KindInvalidArgument {
		resp.Error = err.Error()
	}
	return statusForKind(kind), resp
}

// respondServiceError logs a failed operation and writes the mapped response
func respondServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status, resp := mapServiceError(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(operation+" failed", "error", err)
	} else {
		log.Info(operation+" rejected", "error", err, "code", resp.Code)
	}
	if resp.Retryable {
		metrics.RecordConflict(operation)
	}

	respondJSON(w, status, resp)
}
