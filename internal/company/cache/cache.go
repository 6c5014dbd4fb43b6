// Package cache holds the optional Redis credential cache. Authentication
// runs on every request and bcrypt verification is deliberately slow, so a
// short-TTL cache of digest → company keeps the hot path cheap without ever
// storing a usable credential.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	platformredis "hindsight/internal/platform/redis"
	id "hindsight/pkg/domain"
)

const (
	digestPrefix  = "hindsight:cred:"
	reversePrefix = "hindsight:cred:company:"
)

// CredentialCache maps SHA-256 digests of credentials to company ids.
// A nil *CredentialCache is a valid no-op cache.
type CredentialCache struct {
	client *platformredis.Client
	ttl    time.Duration
}

// New builds a credential cache. Returns nil when Redis is not configured,
// which callers treat as "cache disabled".
func New(client *platformredis.Client, ttl time.Duration) *CredentialCache {
	if client == nil {
		return nil
	}
	return &CredentialCache{client: client, ttl: ttl}
}

func digest(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached company for a credential, or false on miss.
// Cache failures degrade to a miss; authentication still works without Redis.
func (c *CredentialCache) Lookup(ctx context.Context, credential string) (id.CompanyID, bool) {
	if c == nil {
		return id.CompanyID{}, false
	}
	raw, err := c.client.Get(ctx, digestPrefix+digest(credential)).Result()
	if err != nil {
		return id.CompanyID{}, false
	}
	parsed, err := uuid.Parse(raw)
	if err != nil || parsed == uuid.Nil {
		return id.CompanyID{}, false
	}
	return id.CompanyID(parsed), true
}

// Store caches a verified credential → company mapping. The reverse key lets
// Invalidate find the digest entry after a credential reset.
func (c *CredentialCache) Store(ctx context.Context, credential string, companyID id.CompanyID) {
	if c == nil {
		return
	}
	key := digestPrefix + digest(credential)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, companyID.String(), c.ttl)
	pipe.Set(ctx, reversePrefix+companyID.String(), key, c.ttl)
	_, _ = pipe.Exec(ctx)
}

// Invalidate drops any cached entry for the company. Called on credential
// reset and suspension so stale credentials stop working within one round
// trip rather than one TTL.
func (c *CredentialCache) Invalidate(ctx context.Context, companyID id.CompanyID) {
	if c == nil {
		return
	}
	reverseKey := reversePrefix + companyID.String()
	key, err := c.client.Get(ctx, reverseKey).Result()
	if err != nil && err != goredis.Nil {
		return
	}
	keys := []string{reverseKey}
	if key != "" {
		keys = append(keys, key)
	}
	_ = c.client.Del(ctx, keys...).Err()
}
