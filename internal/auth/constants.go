package auth

import "time"

// Supabase auth API
const (
	UserEndpoint          = "/auth/v1/user"
	DefaultRequestTimeout = 5 * time.Second
	MaxResponseBytes      = 1 << 20
)

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// Log messages
const (
	LogMsgVerifyCompleted = "Supabase token verification completed"
	LogMsgCacheHit        = "Auth cache hit"
)
