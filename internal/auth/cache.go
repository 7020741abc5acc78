package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/Hearthmarket_Go/internal/logger"
)

// CacheConfig sizes the verified-token cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// cachedIdentity wraps an identity with version metadata for cache invalidation
type cachedIdentity struct {
	Version  string
	Identity Identity
	CachedAt time.Time
}

// identityCache is an LRU of verified tokens with time-based expiry.
// Keys are SHA-256 digests so raw tokens are never held in memory.
type identityCache struct {
	lru    *expirable.LRU[string, *cachedIdentity]
	hits   atomic.Int64
	misses atomic.Int64
}

func newIdentityCache(config CacheConfig) *identityCache {
	return &identityCache{
		lru: expirable.NewLRU[string, *cachedIdentity](config.Size, nil, config.TTL),
	}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Get returns the identity cached for token. Entries from an older schema are dropped.
func (c *identityCache) Get(token string) (*Identity, bool) {
	key := tokenKey(token)
	entry, found := c.lru.Get(key)
	if !found {
		c.misses.Add(1)
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(key)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	identity := entry.Identity
	return &identity, true
}

// Set stores an identity for token
func (c *identityCache) Set(token string, identity *Identity) {
	c.lru.Add(tokenKey(token), &cachedIdentity{
		Version:  CacheSchemaVersion,
		Identity: *identity,
		CachedAt: time.Now(),
	})
}

// Invalidate removes one token
func (c *identityCache) Invalidate(token string) {
	c.lru.Remove(tokenKey(token))
}

// GetStats returns hit and miss counters
func (c *identityCache) GetStats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}

// CachingVerifier remembers successful verifications for the cache TTL.
// Failures are never cached.
type CachingVerifier struct {
	inner Verifier
	cache *identityCache
}

// NewCachingVerifier wraps inner with an expirable LRU cache
func NewCachingVerifier(inner Verifier, config CacheConfig) *CachingVerifier {
	return &CachingVerifier{
		inner: inner,
		cache: newIdentityCache(config),
	}
}

// Verify implements Verifier
func (v *CachingVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if identity, ok := v.cache.Get(token); ok {
		logger.FromContext(ctx).Debug(LogMsgCacheHit, "user_id", identity.UserID)
		return identity, nil
	}
	identity, err := v.inner.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	v.cache.Set(token, identity)
	return identity, nil
}

// Invalidate forgets a token, e.g. after sign-out
func (v *CachingVerifier) Invalidate(token string) {
	v.cache.Invalidate(token)
}

// Stats exposes cache counters
func (v *CachingVerifier) Stats() CacheStats {
	return v.cache.GetStats()
}
