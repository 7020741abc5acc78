package logger

// Log Level String Values
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log Format String Values
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Defaults used before configuration is loaded
const (
	DefaultServiceName = "hearthmarket"
	DefaultVersion     = "dev"
	EnvironmentDev     = "dev"
)

// Log Attribute Keys
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyUserID      = "user_id"

	// Economy entities, shared so log queries can join across services
	AttrKeyCharacterID       = "character_id"
	AttrKeyShopID            = "shop_id"
	AttrKeyItemID            = "item_id"
	AttrKeyExchangeRequestID = "exchange_request_id"
	AttrKeyOperation         = "operation"
)
