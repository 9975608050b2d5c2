package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"strings"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/joho/godotenv"

	"market_trends/internal/app/di"
	"market_trends/internal/app/router"
	analysishandler "market_trends/internal/feature/analysis/transport/handler"
	analysisusecase "market_trends/internal/feature/analysis/usecase"
	authadapters "market_trends/internal/feature/auth/adapters"
	authhandler "market_trends/internal/feature/auth/transport/handler"
	authusecase "market_trends/internal/feature/auth/usecase"
	"market_trends/internal/feature/quotes/adapters/alphavantage"
	platformdb "market_trends/internal/platform/db"
	platformhandler "market_trends/internal/platform/http/handler"
	jwtmw "market_trends/internal/platform/jwt"
	platformredis "market_trends/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	// db
	db, err := platformdb.OpenDB(platformdb.LoadConfigFromEnv())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	// Redis（任意）
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		if !errors.Is(err, platformredis.ErrNotConfigured) {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		}
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// JWT
	secret, expiration, err := jwtmw.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid JWT configuration: %v", err)
	}

	// Alpha Vantage
	avCfg := alphavantage.LoadConfig()
	if avCfg.APIKey == "" {
		slog.Warn("ALPHA_VANTAGE_API_KEY is not set; the provider will reject requests")
	}

	// Repository / Store
	userRepo := authadapters.NewUserGorm(db)
	tokenStore := di.NewTokenStore(rdb, db)
	fetcher := di.NewQuoteFetcher(avCfg, rdb)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(secret, expiration), tokenStore)
	analysisUC := analysisusecase.NewAnalysisUsecase(fetcher)

	// Health checks
	checks := map[string]platformhandler.Checker{"db": sqlDB.PingContext}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// Handler
	handlers := router.Handlers{
		Auth:     authhandler.NewAuthHandler(authUC),
		Analysis: analysishandler.NewAnalysisHandler(analysisUC),
		Health:   platformhandler.NewHealthHandler(checks),
	}

	// ルータ生成
	r := router.NewRouter(handlers, router.NewAuthMiddleware(secret, tokenStore), allowedOrigins())

	addr := ":" + envOr("PORT", "8080")
	slog.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}

func allowedOrigins() []string {
	raw := os.Getenv("CORS_ALLOWED_ORIGINS")
	if raw == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
