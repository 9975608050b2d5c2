// Package usecase は株価時系列の正規化と期間絞り込みを実装します。
package usecase

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"market_trends/internal/feature/quotes/domain"
	"market_trends/internal/feature/quotes/domain/entity"
)

// canonicalField はDailyRecordの項目名です。
type canonicalField string

const (
	fieldOpen   canonicalField = "open"
	fieldHigh   canonicalField = "high"
	fieldLow    canonicalField = "low"
	fieldClose  canonicalField = "close"
	fieldVolume canonicalField = "volume"
)

// providerFieldLabels はプロバイダー固有のラベルを正規の項目名に対応付けます。
// プロバイダーの語彙はこの表の中だけに閉じ込めます。
var providerFieldLabels = map[string]canonicalField{
	"1. open":   fieldOpen,
	"2. high":   fieldHigh,
	"3. low":    fieldLow,
	"4. close":  fieldClose,
	"5. volume": fieldVolume,
}

// Normalized は正規化の結果です。
type Normalized struct {
	Series  entity.TimeSeries
	Dropped int // 日付または数値が解析できず除外されたエントリ数
}

// Normalizer はRawQuotePayloadを日付昇順・重複なしのTimeSeriesに変換します。
type Normalizer struct{}

// NewNormalizer はNormalizerの新しいインスタンスを生成します。
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize はペイロードの各エントリを解析します。
// 解析できないエントリは除外して数え、全件が除外された場合のみErrEmptySeriesを返します。
// 同じ日付が複数ある場合はペイロード上で後に現れたものが優先されます。
func (n *Normalizer) Normalize(payload entity.RawQuotePayload) (Normalized, error) {
	records := make([]entity.DailyRecord, 0, len(payload.Entries))
	dropped := 0
	for _, e := range payload.Entries {
		rec, ok := parseEntry(e)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return Normalized{Dropped: dropped}, &domain.NormalizationError{Kind: domain.ErrEmptySeries, Dropped: dropped}
	}
	if dropped > 0 {
		slog.Warn("dropped unparsable records", "symbol", payload.Symbol, "dropped", dropped, "kept", len(records))
	}

	return Normalized{Series: entity.NewTimeSeries(payload.Symbol, records), Dropped: dropped}, nil
}

// parseEntry は1日分のエントリをDailyRecordに変換します。
func parseEntry(e entity.RawEntry) (entity.DailyRecord, bool) {
	date, err := entity.ParseDate(strings.TrimSpace(e.DateKey))
	if err != nil {
		return entity.DailyRecord{}, false
	}

	values := make(map[canonicalField]string, len(providerFieldLabels))
	for label, raw := range e.Fields {
		if f, ok := providerFieldLabels[label]; ok {
			values[f] = strings.TrimSpace(raw)
		}
	}

	rec := entity.DailyRecord{Date: date}
	prices := []struct {
		field canonicalField
		dst   *float64
	}{
		{fieldOpen, &rec.Open},
		{fieldHigh, &rec.High},
		{fieldLow, &rec.Low},
		{fieldClose, &rec.Close},
	}
	for _, p := range prices {
		v, ok := values[p.field]
		if !ok {
			return entity.DailyRecord{}, false
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return entity.DailyRecord{}, false
		}
		*p.dst = f
	}

	vol, ok := values[fieldVolume]
	if !ok {
		return entity.DailyRecord{}, false
	}
	v, err := strconv.ParseInt(vol, 10, 64)
	if err != nil || v < 0 {
		return entity.DailyRecord{}, false
	}
	rec.Volume = v

	return rec, true
}
