package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Identity errors
	ErrMsgUnauthenticated = "unauthenticated"

	// Lookup errors
	ErrMsgUserNotFound            = "user not found"
	ErrMsgCharacterNotFound       = "character not found"
	ErrMsgShopNotFound            = "shop not found"
	ErrMsgItemNotFound            = "item not found"
	ErrMsgExchangeRequestNotFound = "exchange request not found"
	ErrMsgRecipeNotFound          = "no recipe matches the submitted ingredients"

	// Ledger errors
	ErrMsgInsufficientFunds     = "insufficient funds"
	ErrMsgInsufficientTillFunds = "shop till cannot cover this"
	ErrMsgInvalidCurrency       = "invalid currency"
	ErrMsgNothingToWithdraw     = "nothing to withdraw"

	// Inventory errors
	ErrMsgInsufficientQuantity   = "insufficient quantity"
	ErrMsgInsufficientIngredient = "insufficient ingredient"

	// Crafting errors
	ErrMsgHeatOutOfRange      = "heat level out of range"
	ErrMsgCatalogInconsistent = "catalog is inconsistent"

	// Shop errors
	ErrMsgOutOfStock        = "item is out of stock"
	ErrMsgAlreadyOwned      = "item already owned"
	ErrMsgRaceExcluded      = "item not available to this race"
	ErrMsgMissingDocument   = "required document missing"
	ErrMsgRestockNotAllowed = "item cannot be restocked"
	ErrMsgNotShopOwner      = "only the shop owner can do this"

	// Exchange errors
	ErrMsgNotRequestOwner        = "only the creator can cancel this request"
	ErrMsgCannotAcceptOwnRequest = "cannot accept a request with the creating character"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgTransactionConflict = "transaction conflict"
	ErrMsgTxClosed            = "tx is closed"
	ErrMsgDatabaseError       = "database error"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUnauthenticated = errors.New(ErrMsgUnauthenticated)

	ErrUserNotFound            = errors.New(ErrMsgUserNotFound)
	ErrCharacterNotFound       = errors.New(ErrMsgCharacterNotFound)
	ErrShopNotFound            = errors.New(ErrMsgShopNotFound)
	ErrItemNotFound            = errors.New(ErrMsgItemNotFound)
	ErrExchangeRequestNotFound = errors.New(ErrMsgExchangeRequestNotFound)
	ErrRecipeNotFound          = errors.New(ErrMsgRecipeNotFound)

	ErrInsufficientFunds     = errors.New(ErrMsgInsufficientFunds)
	ErrInsufficientTillFunds = errors.New(ErrMsgInsufficientTillFunds)
	ErrInvalidCurrency       = errors.New(ErrMsgInvalidCurrency)
	ErrNothingToWithdraw     = errors.New(ErrMsgNothingToWithdraw)

	ErrInsufficientQuantity   = errors.New(ErrMsgInsufficientQuantity)
	ErrInsufficientIngredient = errors.New(ErrMsgInsufficientIngredient)

	ErrHeatOutOfRange      = errors.New(ErrMsgHeatOutOfRange)
	ErrCatalogInconsistent = errors.New(ErrMsgCatalogInconsistent)

	ErrOutOfStock        = errors.New(ErrMsgOutOfStock)
	ErrAlreadyOwned      = errors.New(ErrMsgAlreadyOwned)
	ErrRaceExcluded      = errors.New(ErrMsgRaceExcluded)
	ErrMissingDocument   = errors.New(ErrMsgMissingDocument)
	ErrRestockNotAllowed = errors.New(ErrMsgRestockNotAllowed)
	ErrNotShopOwner      = errors.New(ErrMsgNotShopOwner)

	ErrNotRequestOwner        = errors.New(ErrMsgNotRequestOwner)
	ErrCannotAcceptOwnRequest = errors.New(ErrMsgCannotAcceptOwnRequest)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// ErrTransactionConflict means the store saw a concurrent write to a document
	// this transaction read. Nothing was written; the caller may retry.
	ErrTransactionConflict = errors.New(ErrMsgTransactionConflict)
)

// ErrorKind groups domain errors by how a caller should react to them.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidArgument
	KindNotFound
	KindFailedPrecondition
	KindPermissionDenied
	KindUnauthenticated
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindFailedPrecondition:
		return "failed_precondition"
	case KindPermissionDenied:
		return "permission_denied"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrTransactionConflict, KindConflict},

	{ErrUserNotFound, KindNotFound},
	{ErrCharacterNotFound, KindNotFound},
	{ErrShopNotFound, KindNotFound},
	{ErrItemNotFound, KindNotFound},
	{ErrExchangeRequestNotFound, KindNotFound},

	{ErrInvalidInput, KindInvalidArgument},
	{ErrInvalidCurrency, KindInvalidArgument},
	{ErrRecipeNotFound, KindInvalidArgument},

	{ErrNotShopOwner, KindPermissionDenied},
	{ErrNotRequestOwner, KindPermissionDenied},

	{ErrInsufficientFunds, KindFailedPrecondition},
	{ErrInsufficientTillFunds, KindFailedPrecondition},
	{ErrNothingToWithdraw, KindFailedPrecondition},
	{ErrInsufficientQuantity, KindFailedPrecondition},
	{ErrInsufficientIngredient, KindFailedPrecondition},
	{ErrHeatOutOfRange, KindFailedPrecondition},
	{ErrOutOfStock, KindFailedPrecondition},
	{ErrAlreadyOwned, KindFailedPrecondition},
	{ErrRaceExcluded, KindFailedPrecondition},
	{ErrMissingDocument, KindFailedPrecondition},
	{ErrRestockNotAllowed, KindFailedPrecondition},
	{ErrCannotAcceptOwnRequest, KindFailedPrecondition},

	{ErrCatalogInconsistent, KindInternal},
}

// KindOf classifies err. Unrecognised errors are internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindInternal
	}
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return KindInternal
}

// IsConflict reports whether err is a retryable transaction conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrTransactionConflict)
}
