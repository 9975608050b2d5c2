package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "market_trends/internal/feature/auth/adapters"
	authusecase "market_trends/internal/feature/auth/usecase"
	jwtmw "market_trends/internal/platform/jwt"
	"market_trends/internal/platform/session"
)

// TokenStore records revoked tokens on logout and answers revocation checks in the middleware.
type TokenStore interface {
	authusecase.TokenStore
	jwtmw.RevocationChecker
}

// NewTokenStore creates a TokenStore implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the revoked_tokens table.
func NewTokenStore(rdb *redis.Client, db *gorm.DB) TokenStore {
	if rdb != nil {
		return session.NewRevocationRedis(rdb, "auth")
	}
	return authadapters.NewRevokedTokenGorm(db)
}
