package jwtmw

import (
	"fmt"
	"os"
	"time"
)

const (
	// EnvKeyJWTSecret はJWT署名用シークレットの環境変数名です。
	EnvKeyJWTSecret = "JWT_SECRET"
	// EnvKeyJWTExpiration はトークン有効期間の環境変数名です（例: "2h"）。
	EnvKeyJWTExpiration = "JWT_EXPIRATION"

	// DefaultExpiration はJWT_EXPIRATION未設定時の有効期間です。
	DefaultExpiration = time.Hour
)

// LoadConfigFromEnv は環境変数からシークレットと有効期間を読み込みます。
// JWT_SECRETが未設定の場合はエラーを返します。
func LoadConfigFromEnv() (secret string, expiration time.Duration, err error) {
	secret = os.Getenv(EnvKeyJWTSecret)
	if secret == "" {
		return "", 0, fmt.Errorf("%s is not set", EnvKeyJWTSecret)
	}
	expiration = DefaultExpiration
	if v := os.Getenv(EnvKeyJWTExpiration); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return "", 0, fmt.Errorf("invalid %s %q", EnvKeyJWTExpiration, v)
		}
		expiration = d
	}
	return secret, expiration, nil
}
