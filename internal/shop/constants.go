package shop

// Service log messages
const (
	LogMsgPurchaseCalled = "PurchaseShopItem called"
	LogMsgRestockCalled  = "RestockShopItem called"
	LogMsgWithdrawCalled = "WithdrawFromShopTill called"
	LogMsgItemPurchased  = "Shop item purchased"
	LogMsgItemRestocked  = "Shop item restocked"
	LogMsgTillWithdrawn  = "Shop till withdrawn"
	LogMsgRejected       = "Shop operation rejected"
	LogMsgPublishFailed  = "Failed to publish shop event"
	LogMsgCatalogLoaded  = "Restock catalog loaded"
)

// Error message formats
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgGetShopFailed           = "failed to get shop: %w"
	ErrMsgGetUserFailed           = "failed to get user: %w"
	ErrMsgUpdateShopFailed        = "failed to update shop: %w"
	ErrMsgUpdateUserFailed        = "failed to update user: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
)
