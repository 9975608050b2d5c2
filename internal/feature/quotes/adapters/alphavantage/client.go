package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	analysisusecase "market_trends/internal/feature/analysis/usecase"
	"market_trends/internal/feature/quotes/adapters/alphavantage/dto"
	"market_trends/internal/feature/quotes/domain"
	"market_trends/internal/feature/quotes/domain/entity"
	"market_trends/internal/shared/ratelimiter"
)

const dailyFunction = "TIME_SERIES_DAILY"

// Client はAlpha Vantage外部APIから日足の時系列を取得するQuoteFetcher実装です。
// 呼び出しごとに1回だけHTTPリクエストを行い、リトライやキャッシュは行いません。
// 無料枠の呼び出し回数制限を守るため、リクエスト前にレートリミッターで待機します。
type Client struct {
	cfg         Config
	client      *http.Client
	rateLimiter ratelimiter.RateLimiterInterface
}

// ClientがQuoteFetcherを実装していることをコンパイル時に検証します。
var _ analysisusecase.QuoteFetcher = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// rateLimiterがnilの場合は待機しません。
func NewClient(cfg Config, client *http.Client, rateLimiter ratelimiter.RateLimiterInterface) *Client {
	return &Client{cfg: cfg, client: client, rateLimiter: rateLimiter}
}

// Fetch はAlpha Vantage APIから日足の時系列を取得し、未加工のペイロードとして返します。
// 通信失敗はErrTransport、APIレベルのエラーはErrProviderRejectedを種別とするFetchErrorを返します。
func (c *Client) Fetch(ctx context.Context, req entity.QuoteRequest) (entity.RawQuotePayload, error) {
	q := url.Values{}
	// クエリパラメータを追加
	q.Set("function", dailyFunction)
	q.Set("symbol", req.Symbol)
	q.Set("outputsize", string(req.OutputSize))
	q.Set("apikey", c.cfg.APIKey)

	// URLを生成
	u := fmt.Sprintf("%s/query?%s", strings.TrimRight(c.cfg.BaseURL, "/"), q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.RawQuotePayload{}, domain.NewTransportError("build request", err)
	}

	if c.rateLimiter != nil {
		c.rateLimiter.WaitIfNeeded()
	}
	res, err := c.client.Do(httpReq)
	if err != nil {
		return entity.RawQuotePayload{}, domain.NewTransportError("request failed", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// 接続の再利用のためにボディを読み捨てる
		_, _ = io.Copy(io.Discard, res.Body)
		return entity.RawQuotePayload{}, domain.NewTransportError(fmt.Sprintf("alphavantage http %d", res.StatusCode), nil)
	}

	var body dto.TimeSeriesDailyResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return entity.RawQuotePayload{}, domain.NewTransportError("decode body", err)
	}

	// APIはエラーでも200を返すため、本文のエラー項目を確認する
	switch {
	case body.ErrorMessage != "":
		return entity.RawQuotePayload{}, domain.NewProviderRejectedError(body.ErrorMessage)
	case body.Note != "":
		return entity.RawQuotePayload{}, domain.NewProviderRejectedError(body.Note)
	case body.Information != "":
		return entity.RawQuotePayload{}, domain.NewProviderRejectedError(body.Information)
	}

	entries, err := decodeEntries(body.TimeSeries)
	if err != nil {
		return entity.RawQuotePayload{}, domain.NewProviderRejectedError(err.Error())
	}
	if len(entries) == 0 {
		return entity.RawQuotePayload{}, domain.NewProviderRejectedError("no time series in response")
	}

	return entity.RawQuotePayload{Symbol: req.Symbol, Entries: entries}, nil
}

// decodeEntries は時系列オブジェクトをレスポンス本文の順序のままエントリ列に変換します。
// オブジェクトでない日付エントリはFieldsをnilのまま残し、正規化で除外されます。
func decodeEntries(raw json.RawMessage) ([]entity.RawEntry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dto.TimeSeriesKey, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%s is not an object", dto.TimeSeriesKey)
	}

	var entries []entity.RawEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dto.TimeSeriesKey, err)
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%s[%s]: %w", dto.TimeSeriesKey, key, err)
		}
		entries = append(entries, entity.RawEntry{DateKey: key, Fields: decodeFields(value)})
	}
	return entries, nil
}

// decodeFields はラベルから値へのマップを文字列として取り出します。
// 数値で返された値はJSON表現のまま文字列化します。
func decodeFields(value json.RawMessage) map[string]string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(value, &obj); err != nil || obj == nil {
		return nil
	}
	fields := make(map[string]string, len(obj))
	for label, v := range obj {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			fields[label] = s
			continue
		}
		fields[label] = string(v)
	}
	return fields
}
