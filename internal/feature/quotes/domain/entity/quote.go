// Package entity defines the domain models for the quotes feature.
package entity

import (
	"fmt"
	"strings"
)

// OutputSize は外部APIに要求する時系列の長さです。
type OutputSize string

const (
	// OutputSizeCompact は直近100営業日分のみを要求します。
	OutputSizeCompact OutputSize = "compact"
	// OutputSizeFull は取得可能な全期間を要求します。
	OutputSizeFull OutputSize = "full"
)

// ParseOutputSize は文字列をOutputSizeに変換します。compact/full以外はエラーです。
func ParseOutputSize(s string) (OutputSize, error) {
	switch OutputSize(strings.ToLower(strings.TrimSpace(s))) {
	case OutputSizeCompact:
		return OutputSizeCompact, nil
	case OutputSizeFull:
		return OutputSizeFull, nil
	default:
		return "", fmt.Errorf("unsupported output size %q", s)
	}
}

// QuoteRequest は1銘柄の日足時系列の取得要求です。
type QuoteRequest struct {
	Symbol     string     // Ticker symbol as passed to the provider (e.g., "AAPL")
	OutputSize OutputSize // compact or full
}

// NewQuoteRequest は銘柄コードを正規化（前後の空白を除去）してQuoteRequestを生成します。
// 大文字小文字は入力のまま保持します。
func NewQuoteRequest(symbol string, size OutputSize) (QuoteRequest, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return QuoteRequest{}, ErrEmptySymbol
	}
	if size != OutputSizeCompact && size != OutputSizeFull {
		return QuoteRequest{}, fmt.Errorf("unsupported output size %q", size)
	}
	return QuoteRequest{Symbol: symbol, OutputSize: size}, nil
}

// RawEntry は外部APIレスポンスの1日分のエントリです。
// Fieldsはプロバイダー固有のラベル（例: "1. open"）から数値文字列へのマップです。
type RawEntry struct {
	DateKey string
	Fields  map[string]string
}

// RawQuotePayload は未加工のプロバイダーレスポンスです。
// Entriesはレスポンス本文に現れた順序を保持します。
type RawQuotePayload struct {
	Symbol  string
	Entries []RawEntry
}
