package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", UserID(ctx))

	_, ok := FromContext(WithIdentity(ctx, &Identity{}))
	assert.False(t, ok, "identity without a user id is anonymous")

	ctx = WithIdentity(ctx, &Identity{UserID: "alice", Role: "authenticated"})
	identity, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "authenticated", identity.Role)
	assert.Equal(t, "alice", UserID(ctx))

	assert.Equal(t, ctx, WithIdentity(ctx, nil))
}
