// Package db はユーザー情報を保存するデータベース接続を提供します。
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authadapters "market_trends/internal/feature/auth/adapters"
	"market_trends/internal/feature/auth/domain/entity"
)

const (
	// DriverSQLite はローカルファイルのSQLiteを使用します（デフォルト）。
	DriverSQLite = "sqlite"
	// DriverPostgres はPostgreSQLサーバーに接続します。
	DriverPostgres = "postgres"

	defaultSQLitePath = "users.db"
	retryInterval     = 3 * time.Second
)

// Config はデータベース接続設定です。
type Config struct {
	Driver   string
	Path     string // SQLiteのファイルパス
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Driver:   os.Getenv("DB_DRIVER"),
		Path:     os.Getenv("DB_PATH"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.Path == "" {
		cfg.Path = defaultSQLitePath
	}
	if cfg.Port == "" {
		cfg.Port = "5432"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	return cfg
}

// BuildDSN は設定からドライバーに応じた接続文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)
	}
	return cfg.Path
}

// Opener はDSNからGORM接続を開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// NewOpener はドライバーに応じたOpenerを返します。
// 一意制約違反をgorm.ErrDuplicatedKeyとして扱えるようTranslateErrorを有効にします。
func NewOpener(driver string) (Opener, error) {
	gcfg := &gorm.Config{TranslateError: true}
	switch driver {
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gcfg) }, nil
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gcfg) }, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// ConnectWithRetry はtimeoutまでretryInterval間隔で接続を再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// Migrate は認証に必要なテーブルを作成します。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&entity.User{}, &authadapters.RevokedToken{})
}

// OpenDB は設定に従って接続し、マイグレーションを実行します。
func OpenDB(cfg Config) (*gorm.DB, error) {
	opener, err := NewOpener(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, opener)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	slog.Info("DB connection successful", "driver", cfg.Driver)
	return db, nil
}
