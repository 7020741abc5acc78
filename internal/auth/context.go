package auth

import (
	"context"

	"github.com/osse101/Hearthmarket_Go/internal/logger"
)

type ctxKey struct{}

// WithIdentity stores the verified caller on ctx and tags the request logger with its user id
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	if identity == nil {
		return ctx
	}
	ctx = logger.WithUserID(ctx, identity.UserID)
	return context.WithValue(ctx, ctxKey{}, identity)
}

// FromContext returns the caller attached by WithIdentity
func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(*Identity)
	return identity, ok && identity != nil && identity.UserID != ""
}

// UserID returns the caller's user id, or "" for anonymous requests
func UserID(ctx context.Context) string {
	if identity, ok := FromContext(ctx); ok {
		return identity.UserID
	}
	return ""
}
