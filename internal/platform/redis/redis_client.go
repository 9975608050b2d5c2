// Package redis はキャッシュとトークン失効に使うRedisクライアントを生成します。
package redis

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured はREDIS_HOSTが設定されていないことを示します。
// 呼び出し側はRedisなしで動作を続けられます。
var ErrNotConfigured = errors.New("redis not configured")

// Options は環境変数からクライアント設定を組み立てます。
func Options() (*redis.Options, error) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil, ErrNotConfigured
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	}, nil
}

// NewRedisClient は接続確認済みのRedisクライアントを返します。
func NewRedisClient() (*redis.Client, error) {
	opts, err := Options()
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	// 接続確認
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", opts.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", opts.Addr)
	return rdb, nil
}
