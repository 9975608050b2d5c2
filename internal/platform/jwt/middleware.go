package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"market_trends/internal/feature/auth/domain/entity"
)

// ContextSession はgin.Contextに認証済みセッションを格納するキーです。
const ContextSession = "session"

// RevocationChecker はログアウトで失効したトークンIDを判定します。
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
// revoked may be nil, in which case logout does not invalidate tokens.
func AuthRequired(secret string, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			// HMAC以外のアルゴリズムは拒否
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" || claims.ID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				slog.Error("failed to check token revocation", "error", err, "jti", claims.ID)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			if isRevoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
				return
			}
		}

		session := entity.Session{
			Authenticated: true,
			UserID:        claims.UserID,
			Username:      claims.Subject,
			TokenID:       claims.ID,
		}
		if claims.ExpiresAt != nil {
			session.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(ContextSession, session)
		c.Next()
	}
}

// SessionFromContext はミドルウェアが格納したセッションを返します。
// 未認証のリクエストではAnonymousセッションを返します。
func SessionFromContext(c *gin.Context) entity.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return entity.Anonymous()
	}
	s, ok := v.(entity.Session)
	if !ok {
		return entity.Anonymous()
	}
	return s
}
