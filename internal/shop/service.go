package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/event"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
	"github.com/osse101/Hearthmarket_Go/internal/utils"
)

// PurchaseRequest buys Quantity of one listing for one of the caller's characters
type PurchaseRequest struct {
	ShopID           string `json:"-"`
	ItemID           string `json:"itemId" validate:"required,max=100"`
	BuyerCharacterID string `json:"characterId" validate:"required,max=100"`
	Quantity         int    `json:"quantity" validate:"min=1,max=999"`
}

// RestockRequest refills one sold-out listing
type RestockRequest struct {
	ShopID string `json:"-"`
	ItemID string `json:"itemId" validate:"required,max=100"`
}

// PurchaseResult is what a buyer sees after a purchase commits
type PurchaseResult struct {
	ShopID         string           `json:"shopId"`
	ItemID         string           `json:"itemId"`
	Quantity       int              `json:"quantity"`
	Total          domain.Currency  `json:"total"`
	Balance        domain.Currency  `json:"balance"`
	RemainingStock *int             `json:"remainingStock,omitempty"`
	Inventory      domain.Inventory `json:"inventory"`
}

// RestockResult reports the new stock level and what the till paid
type RestockResult struct {
	ShopID      string          `json:"shopId"`
	ItemID      string          `json:"itemId"`
	Quantity    int             `json:"quantity"`
	Cost        domain.Currency `json:"cost"`
	BankAccount domain.Currency `json:"bankAccount"`
}

// Service defines the interface for shop operations
type Service interface {
	Purchase(ctx context.Context, buyerUserID string, req PurchaseRequest) (*PurchaseResult, error)
	Restock(ctx context.Context, userID string, req RestockRequest) (*RestockResult, error)
	WithdrawTill(ctx context.Context, userID, shopID string) (domain.Currency, error)
	GetShop(ctx context.Context, shopID string, includeHidden bool) (*domain.Shop, error)
}

type service struct {
	repo      repository.Shop
	restock   *RestockCatalog
	publisher event.Publisher
}

// NewService creates a new shop service
func NewService(repo repository.Shop, restock *RestockCatalog, publisher event.Publisher) Service {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &service{
		repo:      repo,
		restock:   restock,
		publisher: publisher,
	}
}

// GetShop returns the committed shop. Hidden listings are dropped unless includeHidden.
func (s *service) GetShop(ctx context.Context, shopID string, includeHidden bool) (*domain.Shop, error) {
	shop, err := s.repo.GetShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetShopFailed, err)
	}
	if includeHidden {
		return shop, nil
	}
	visible := shop.Items[:0]
	for _, it := range shop.Items {
		if !it.IsHidden {
			visible = append(visible, it)
		}
	}
	shop.Items = visible
	return shop, nil
}

func raceExcluded(race string, excluded []string) bool {
	if race == "" {
		return false
	}
	for _, r := range excluded {
		if strings.EqualFold(r, race) {
			return true
		}
	}
	return false
}

// checkEligibility applies the per-listing purchase rules to the buyer
func checkEligibility(item *domain.ShopItem, buyer *domain.Character, quantity int) error {
	if !item.Unlimited() && *item.Quantity < quantity {
		return fmt.Errorf("%w: %s has %d left", domain.ErrOutOfStock, item.ID, *item.Quantity)
	}
	if item.IsSinglePurchase {
		if quantity != 1 {
			return fmt.Errorf("%w: %s can only be bought one at a time", domain.ErrInvalidInput, item.ID)
		}
		if utils.HasItem(buyer.Inventory, item.ID) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyOwned, item.ID)
		}
	}
	if raceExcluded(buyer.Race, item.ExcludedRaces) {
		return fmt.Errorf("%w: %s", domain.ErrRaceExcluded, buyer.Race)
	}
	if item.RequiredDocument != "" && utils.CountItem(buyer.Inventory, domain.CategoryDocument, item.RequiredDocument) < 1 {
		return fmt.Errorf("%w: %s", domain.ErrMissingDocument, item.RequiredDocument)
	}
	return nil
}

// Purchase moves price x quantity between the buyer and the till and hands over
// the goods. Negative price components flow from the till to the buyer.
func (s *service) Purchase(ctx context.Context, buyerUserID string, req PurchaseRequest) (*PurchaseResult, error) {
	log := logger.FromContext(ctx).With(logger.AttrKeyShopID, req.ShopID, logger.AttrKeyItemID, req.ItemID, logger.AttrKeyCharacterID, req.BuyerCharacterID)
	log.Info(LogMsgPurchaseCalled, "quantity", req.Quantity)

	if req.Quantity < 1 || req.Quantity > domain.MaxPurchaseQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrInvalidInput, domain.MaxPurchaseQuantity)
	}
	if req.ShopID == "" || req.ItemID == "" || req.BuyerCharacterID == "" {
		return nil, fmt.Errorf("%w: shop, item and character are required", domain.ErrInvalidInput)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	shop, err := tx.GetShopForUpdate(ctx, req.ShopID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetShopFailed, err)
	}
	buyer, err := tx.GetUserForUpdate(ctx, buyerUserID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	character, ok := buyer.FindCharacter(req.BuyerCharacterID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, req.BuyerCharacterID)
	}
	character.Inventory = utils.EnsureInventory(character.Inventory)

	item, ok := shop.FindItem(req.ItemID)
	if !ok || item.IsHidden {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, req.ItemID)
	}
	if err := checkEligibility(item, character, req.Quantity); err != nil {
		log.Warn(LogMsgRejected, "error", err)
		return nil, err
	}

	total, err := domain.ScaleChecked(item.Price, int64(req.Quantity))
	if err != nil {
		log.Warn(LogMsgRejected, "error", err)
		return nil, err
	}
	if !domain.IsAffordable(character.Balance, total) {
		log.Warn(LogMsgRejected, "error", domain.ErrInsufficientFunds, "total", total.String())
		return nil, fmt.Errorf("%w: costs %s", domain.ErrInsufficientFunds, total.PositivePart())
	}
	if !domain.IsAffordable(shop.BankAccount, total.NegativePart()) {
		log.Warn(LogMsgRejected, "error", domain.ErrInsufficientTillFunds, "total", total.String())
		return nil, fmt.Errorf("%w: owes %s", domain.ErrInsufficientTillFunds, total.NegativePart())
	}

	balance, err := domain.SubtractChecked(character.Balance, total)
	if err != nil {
		return nil, err
	}
	till, err := domain.AddChecked(shop.BankAccount, total)
	if err != nil {
		return nil, err
	}
	character.Balance = balance
	shop.BankAccount = till
	if !item.Unlimited() {
		*item.Quantity -= req.Quantity
	}
	utils.AddToStack(character.Inventory, item.InventoryCategory(), item.ToInventoryItem(), req.Quantity)

	if err := tx.UpdateShop(ctx, shop); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateShopFailed, err)
	}
	if err := tx.UpdateUser(ctx, buyer); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgItemPurchased, "total", total.String())
	s.publish(ctx, event.NewShopItemPurchasedEvent(shop.ID, item.ID, buyerUserID, character.ID, req.Quantity, total))

	result := &PurchaseResult{
		ShopID:    shop.ID,
		ItemID:    item.ID,
		Quantity:  req.Quantity,
		Total:     total,
		Balance:   character.Balance,
		Inventory: character.Inventory,
	}
	if !item.Unlimited() {
		result.RemainingStock = domain.IntPtr(*item.Quantity)
	}
	return result, nil
}

// Restock refills a sold-out listing, paying the restock fee from the till.
func (s *service) Restock(ctx context.Context, userID string, req RestockRequest) (*RestockResult, error) {
	log := logger.FromContext(ctx).With(logger.AttrKeyShopID, req.ShopID, logger.AttrKeyItemID, req.ItemID)
	log.Info(LogMsgRestockCalled)

	if req.ShopID == "" || req.ItemID == "" {
		return nil, fmt.Errorf("%w: shop and item are required", domain.ErrInvalidInput)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	shop, err := tx.GetShopForUpdate(ctx, req.ShopID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetShopFailed, err)
	}
	if shop.OwnerUserID != userID {
		log.Warn(LogMsgRejected, "error", domain.ErrNotShopOwner)
		return nil, domain.ErrNotShopOwner
	}

	item, ok := shop.FindItem(req.ItemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, req.ItemID)
	}
	if item.Unlimited() {
		return nil, fmt.Errorf("%w: %s has unlimited stock", domain.ErrRestockNotAllowed, item.ID)
	}
	if *item.Quantity != 0 {
		return nil, fmt.Errorf("%w: %s still has %d in stock", domain.ErrRestockNotAllowed, item.ID, *item.Quantity)
	}

	cost := domain.RestockCost(item.Price)
	till, err := domain.Debit(shop.BankAccount, cost)
	if err != nil {
		log.Warn(LogMsgRejected, "error", err, "cost", cost.String())
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return nil, fmt.Errorf("%w: restock costs %s", domain.ErrInsufficientTillFunds, cost)
		}
		return nil, err
	}

	quantity := s.restock.QuantityFor(shop.ID, item.ID)
	shop.BankAccount = till
	item.Quantity = domain.IntPtr(quantity)

	if err := tx.UpdateShop(ctx, shop); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateShopFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgItemRestocked, "quantity", quantity, "cost", cost.String())
	s.publish(ctx, event.NewShopItemRestockedEvent(shop.ID, item.ID, quantity, cost))

	return &RestockResult{
		ShopID:      shop.ID,
		ItemID:      item.ID,
		Quantity:    quantity,
		Cost:        cost,
		BankAccount: shop.BankAccount,
	}, nil
}

// WithdrawTill moves every positive till component to the owner character.
// Negative components stay in the till.
func (s *service) WithdrawTill(ctx context.Context, userID, shopID string) (domain.Currency, error) {
	log := logger.FromContext(ctx).With(logger.AttrKeyShopID, shopID)
	log.Info(LogMsgWithdrawCalled)

	if shopID == "" {
		return domain.Currency{}, fmt.Errorf("%w: shop is required", domain.ErrInvalidInput)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return domain.Currency{}, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	shop, err := tx.GetShopForUpdate(ctx, shopID)
	if err != nil {
		return domain.Currency{}, fmt.Errorf(ErrMsgGetShopFailed, err)
	}
	if shop.OwnerUserID != userID {
		log.Warn(LogMsgRejected, "error", domain.ErrNotShopOwner)
		return domain.Currency{}, domain.ErrNotShopOwner
	}

	amount := shop.BankAccount.PositivePart()
	if amount.IsZero() {
		return domain.Currency{}, domain.ErrNothingToWithdraw
	}

	owner, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return domain.Currency{}, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	character, ok := owner.FindCharacter(shop.OwnerCharacterID)
	if !ok {
		return domain.Currency{}, fmt.Errorf("%w: owner character %s", domain.ErrCharacterNotFound, shop.OwnerCharacterID)
	}

	balance, err := domain.AddChecked(character.Balance, amount)
	if err != nil {
		return domain.Currency{}, err
	}
	character.Balance = balance
	shop.BankAccount = domain.Subtract(shop.BankAccount, amount)

	if err := tx.UpdateShop(ctx, shop); err != nil {
		return domain.Currency{}, fmt.Errorf(ErrMsgUpdateShopFailed, err)
	}
	if err := tx.UpdateUser(ctx, owner); err != nil {
		return domain.Currency{}, fmt.Errorf(ErrMsgUpdateUserFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Currency{}, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgTillWithdrawn, "amount", amount.String())
	s.publish(ctx, event.NewShopTillWithdrawnEvent(shop.ID, userID, character.ID, amount))
	return amount, nil
}

func (s *service) publish(ctx context.Context, e event.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", e.Type, "error", err)
	}
}
