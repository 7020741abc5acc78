package crafting

// Brew lifecycle states, logged at debug level as a brew progresses
const (
	StatePending              = "pending"
	StateIngredientsValidated = "ingredients_validated"
	StateIngredientsConsumed  = "ingredients_consumed"
	StatePotionGranted        = "potion_granted"
	StateCommitted            = "committed"
	StateAborted              = "aborted"
)

// Service log messages
const (
	LogMsgBrewCalled        = "BrewPotion called"
	LogMsgBrewState         = "Brew state"
	LogMsgBrewRejected      = "Brew rejected"
	LogMsgPotionBrewed      = "Potion brewed"
	LogMsgPublishFailed     = "Failed to publish potion brewed event"
	LogMsgDuplicateMultiset = "Recipes share an ingredient multiset, first match wins"
	LogMsgCatalogLoaded     = "Recipe catalog loaded"
)

// Error message formats
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgGetUserFailed           = "failed to get user: %w"
	ErrMsgUpdateUserFailed        = "failed to update user: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
)
