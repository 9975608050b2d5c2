// Package dto はanalysisフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "market_trends/internal/feature/analysis/domain/entity"

// AnalysisQuery は GET /analysis/:symbol のクエリパラメータです。
// 省略された項目にはdefaultタグの値が入ります（元の画面の初期値と同じ）。
type AnalysisQuery struct {
	Start      string `form:"start" default:"2023-01-01" binding:"required,datetime=2006-01-02"`
	End        string `form:"end" default:"2023-12-31" binding:"required,datetime=2006-01-02"`
	Horizon    int    `form:"horizon" default:"30"`
	Chart      string `form:"chart" default:"line"`
	OutputSize string `form:"outputsize" default:"full" binding:"oneof=compact full"`
}

// RecordResponse は日足1件のレスポンスです。
type RecordResponse struct {
	Date   string  `json:"date"`   // 日付
	Open   float64 `json:"open"`   // 始値
	High   float64 `json:"high"`   // 高値
	Low    float64 `json:"low"`    // 安値
	Close  float64 `json:"close"`  // 終値
	Volume int64   `json:"volume"` // 出来高
}

// TrendResponse は学習済みトレンドのレスポンスです。
type TrendResponse struct {
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
	OriginDate string  `json:"origin_date"`
	TrainError float64 `json:"train_error"`
	TrainSize  int     `json:"train_size"`
	TestSize   int     `json:"test_size"`
}

// ForecastPointResponse は予測1日分のレスポンスです。
type ForecastPointResponse struct {
	DayOffset      int     `json:"day_offset"`
	Date           string  `json:"date"`
	PredictedClose float64 `json:"predicted_close"`
}

// AnalysisResponse は GET /analysis/:symbol のレスポンスボディです。
type AnalysisResponse struct {
	Symbol   string                  `json:"symbol"`
	User     string                  `json:"user"`
	Start    string                  `json:"start"`
	End      string                  `json:"end"`
	Records  []RecordResponse        `json:"records"`
	Dropped  int                     `json:"dropped"`
	Chart    *entity.ChartSpec       `json:"chart,omitempty"`
	Warning  string                  `json:"warning,omitempty"`
	Trend    TrendResponse           `json:"trend"`
	Forecast []ForecastPointResponse `json:"forecast"`
}

// FieldError はバリデーションエラー1件です。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}
