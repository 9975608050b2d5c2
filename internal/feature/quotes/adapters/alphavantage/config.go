// Package alphavantage はAlpha Vantage株価APIのクライアントを提供します。
package alphavantage

import (
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
)

// Config はAlpha Vantage APIクライアントの設定を保持します。
type Config struct {
	APIKey         string        // 認証用APIキー
	BaseURL        string        `default:"https://www.alphavantage.co"` // APIのベースURL
	Timeout        time.Duration `default:"10s"`                         // HTTPリクエストタイムアウト
	CallsPerMinute int           `default:"5"`                           // 無料プランの上限
}

// LoadConfig は環境変数からAlpha Vantageの設定を読み込み、未設定の項目にデフォルト値を適用します。
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("ALPHA_VANTAGE_API_KEY"),
		BaseURL: os.Getenv("ALPHA_VANTAGE_BASE_URL"),
	}
	if n, err := strconv.Atoi(os.Getenv("ALPHA_VANTAGE_CALLS_PER_MINUTE")); err == nil && n > 0 {
		cfg.CallsPerMinute = n
	}
	// defaultsはゼロ値のフィールドのみを埋める
	_ = defaults.Set(&cfg)
	return cfg
}
