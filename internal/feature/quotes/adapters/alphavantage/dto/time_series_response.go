// Package dto はAlpha Vantage APIレスポンスのデータ転送オブジェクトを定義します。
package dto

import "encoding/json"

// TimeSeriesKey はTIME_SERIES_DAILYレスポンスの時系列オブジェクトのキーです。
const TimeSeriesKey = "Time Series (Daily)"

// MetaData は"Meta Data"オブジェクトを表します。
type MetaData struct {
	Information   string `json:"1. Information"`
	Symbol        string `json:"2. Symbol"`
	LastRefreshed string `json:"3. Last Refreshed"`
	OutputSize    string `json:"4. Output Size"`
	TimeZone      string `json:"5. Time Zone"`
}

// TimeSeriesDailyResponse はTIME_SERIES_DAILYエンドポイントからのJSONレスポンスを表します。
// 時系列は日付順序を保持するためRawMessageのまま受け取ります。
type TimeSeriesDailyResponse struct {
	MetaData     MetaData        `json:"Meta Data"`
	TimeSeries   json.RawMessage `json:"Time Series (Daily)"`
	ErrorMessage string          `json:"Error Message,omitempty"`
	Note         string          `json:"Note,omitempty"`
	Information  string          `json:"Information,omitempty"`
}
