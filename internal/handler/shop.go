package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/osse101/Hearthmarket_Go/internal/concurrency"
	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
	"github.com/osse101/Hearthmarket_Go/internal/shop"
)

// PurchaseResponse wraps a committed purchase
type PurchaseResponse struct {
	Message string               `json:"message"`
	Result  *shop.PurchaseResult `json:"result"`
}

// RestockResponse wraps a committed restock
type RestockResponse struct {
	Message string              `json:"message"`
	Result  *shop.RestockResult `json:"result"`
}

// WithdrawResponse reports what moved from the till to the owner's character
type WithdrawResponse struct {
	Message string          `json:"message"`
	ShopID  string          `json:"shopId"`
	Amount  domain.Currency `json:"amount"`
}

// HandleGetShop returns a shop and its visible listings
// @Summary Get shop
// @Description Hidden listings are included only for the owner with includeHidden=true
// @Tags shop
// @Produce json
// @Param shopID path string true "Shop ID"
// @Param includeHidden query bool false "Include hidden listings (owner only)"
// @Success 200 {object} domain.Shop
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/shops/{shopID} [get]
func HandleGetShop(svc shop.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}
		shopID, ok := GetPathParam(r, w, ParamShopID)
		if !ok {
			return
		}
		includeHidden, _ := strconv.ParseBool(GetOptionalQueryParam(r, QueryIncludeHidden, "false"))

		s, err := svc.GetShop(r.Context(), shopID, includeHidden)
		if err != nil {
			respondServiceError(w, r, opGetShop, err)
			return
		}
		if includeHidden && s.OwnerUserID != userID {
			respondServiceError(w, r, opGetShop, fmt.Errorf("%w: hidden listings of %s", domain.ErrNotShopOwner, shopID))
			return
		}
		respondJSON(w, http.StatusOK, s)
	}
}

// HandlePurchase handles buying from a shop
// @Summary Purchase a shop item
// @Description Debit the buyer, credit the shop till and deliver the item
// @Tags shop
// @Accept json
// @Produce json
// @Param shopID path string true "Shop ID"
// @Param request body shop.PurchaseRequest true "Purchase details"
// @Success 200 {object} PurchaseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/shops/{shopID}/purchase [post]
func HandlePurchase(svc shop.Service, policy concurrency.RetryPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}
		shopID, ok := GetPathParam(r, w, ParamShopID)
		if !ok {
			return
		}

		var req shop.PurchaseRequest
		if err := DecodeAndValidateRequest(r, w, &req, opPurchase); err != nil {
			return
		}
		req.ShopID = shopID

		result, err := runMutation(r.Context(), policy, opPurchase, func(ctx context.Context) (*shop.PurchaseResult, error) {
			return svc.Purchase(ctx, userID, req)
		})
		if err != nil {
			respondServiceError(w, r, opPurchase, err)
			return
		}

		logger.FromContext(r.Context()).Info("Shop item purchased", logger.AttrKeyShopID, shopID, logger.AttrKeyItemID, req.ItemID, "quantity", req.Quantity)
		respondJSON(w, http.StatusOK, PurchaseResponse{Message: MsgItemPurchased, Result: result})
	}
}

// HandleRestock handles refilling a sold-out listing
// @Summary Restock a shop item
// @Description Owner only. The till pays 30% of the restocked value.
// @Tags shop
// @Accept json
// @Produce json
// @Param shopID path string true "Shop ID"
// @Param request body shop.RestockRequest true "Listing to restock"
// @Success 200 {object} RestockResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/shops/{shopID}/restock [post]
func HandleRestock(svc shop.Service, policy concurrency.RetryPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}
		shopID, ok := GetPathParam(r, w, ParamShopID)
		if !ok {
			return
		}

		var req shop.RestockRequest
		if err := DecodeAndValidateRequest(r, w, &req, opRestock); err != nil {
			return
		}
		req.ShopID = shopID

		result, err := runMutation(r.Context(), policy, opRestock, func(ctx context.Context) (*shop.RestockResult, error) {
			return svc.Restock(ctx, userID, req)
		})
		if err != nil {
			respondServiceError(w, r, opRestock, err)
			return
		}

		logger.FromContext(r.Context()).Info("Shop item restocked", logger.AttrKeyShopID, shopID, logger.AttrKeyItemID, req.ItemID)
		respondJSON(w, http.StatusOK, RestockResponse{Message: MsgItemRestocked, Result: result})
	}
}

// HandleWithdrawTill handles moving the till's positive balance to the owner
// @Summary Withdraw from shop till
// @Tags shop
// @Produce json
// @Param shopID path string true "Shop ID"
// @Success 200 {object} WithdrawResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/shops/{shopID}/withdraw [post]
func HandleWithdrawTill(svc shop.Service, policy concurrency.RetryPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}
		shopID, ok := GetPathParam(r, w, ParamShopID)
		if !ok {
			return
		}

		amount, err := runMutation(r.Context(), policy, opWithdrawTill, func(ctx context.Context) (domain.Currency, error) {
			return svc.WithdrawTill(ctx, userID, shopID)
		})
		if err != nil {
			respondServiceError(w, r, opWithdrawTill, err)
			return
		}

		logger.FromContext(r.Context()).Info("Shop till withdrawn", logger.AttrKeyShopID, shopID)
		respondJSON(w, http.StatusOK, WithdrawResponse{Message: MsgTillWithdrawn, ShopID: shopID, Amount: amount})
	}
}
