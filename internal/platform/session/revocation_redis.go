// Package session はログアウト済みトークンの失効情報をRedisで管理します。
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationRedis は失効済みトークンIDをRedisに保持します。
// キーはトークンの有効期限まで残し、期限後はRedisのTTLで自動削除されます。
type RevocationRedis struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRevocationRedis creates a new RevocationRedis instance.
func NewRevocationRedis(client redis.Cmdable, prefix string) *RevocationRedis {
	return &RevocationRedis{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// revokedKey returns the Redis key for a revoked token id.
func (r *RevocationRedis) revokedKey(tokenID string) string {
	return fmt.Sprintf("%s:revoked:%s", r.prefix, tokenID)
}

// Revoke marks the token id as revoked until expiresAt.
// Tokens that have already expired need no entry.
func (r *RevocationRedis) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.revokedKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id has been revoked.
func (r *RevocationRedis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
