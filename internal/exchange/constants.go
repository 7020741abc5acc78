package exchange

// Service log messages
const (
	LogMsgCreateCalled     = "CreateExchangeRequest called"
	LogMsgAcceptCalled     = "AcceptExchangeRequest called"
	LogMsgCancelCalled     = "CancelExchangeRequest called"
	LogMsgRequestCreated   = "Exchange request created"
	LogMsgRequestAccepted  = "Exchange request accepted"
	LogMsgRequestCancelled = "Exchange request cancelled"
	LogMsgRejected         = "Exchange operation rejected"
	LogMsgPublishFailed    = "Failed to publish exchange event"
)

// Error message formats
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgGetUserFailed           = "failed to get user: %w"
	ErrMsgGetRequestFailed        = "failed to get exchange request: %w"
	ErrMsgUpdateUserFailed        = "failed to update user: %w"
	ErrMsgInsertRequestFailed     = "failed to insert exchange request: %w"
	ErrMsgDeleteRequestFailed     = "failed to delete exchange request: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgListRequestsFailed      = "failed to list exchange requests: %w"
)
