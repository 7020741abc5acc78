package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/Hearthmarket_Go/internal/auth"
	"github.com/osse101/Hearthmarket_Go/internal/concurrency"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
)

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON request body, validates it, and returns appropriate errors.
// If this function returns an error, the HTTP response has already been written and the handler should return.
//
// Example usage:
//
//	var req crafting.BrewRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Brew potion"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		log.Warn(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidRequest, Code: codeInvalidArgument})
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	return validateRequest(w, req)
}

func validateRequest(w http.ResponseWriter, req interface{}) error {
	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Code:   codeInvalidArgument,
			Fields: FormatValidationError(err),
		})
		return err
	}
	return nil
}

// requireUserID returns the authenticated caller. When it returns false a 401 has been written.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrMsgUnauthenticated, Code: codeUnauthenticated})
		return "", false
	}
	return userID, true
}

// GetPathParam retrieves a required chi URL parameter.
// If ok is false, the HTTP response has already been written.
func GetPathParam(r *http.Request, w http.ResponseWriter, name string) (string, bool) {
	value := chi.URLParam(r, name)
	if value == "" {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf(ErrMsgMissingPathParam, name), Code: codeInvalidArgument})
		return "", false
	}
	return value, true
}

// GetQueryParam retrieves and validates a required query parameter from the request.
// If ok is false, the HTTP response has already been written.
func GetQueryParam(r *http.Request, w http.ResponseWriter, paramName string) (string, bool) {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		logger.FromContext(r.Context()).Warn(fmt.Sprintf("Missing %s query parameter", paramName))
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf(ErrMsgMissingQueryParam, paramName), Code: codeInvalidArgument})
		return "", false
	}
	return value, true
}

// GetOptionalQueryParam retrieves an optional query parameter, falling back to defaultValue.
func GetOptionalQueryParam(r *http.Request, paramName string, defaultValue string) string {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		return defaultValue
	}
	return value
}

// runMutation runs a transactional service call, re-running it while the store
// reports a conflict. Only the last attempt's result is returned.
func runMutation[RES any](ctx context.Context, policy concurrency.RetryPolicy, operation string, call func(context.Context) (RES, error)) (RES, error) {
	var res RES
	err := concurrency.RetryOnConflict(ctx, policy, operation, func(ctx context.Context) error {
		var callErr error
		res, callErr = call(ctx)
		return callErr
	})
	return res, err
}
