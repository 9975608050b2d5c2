package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"market_trends/internal/feature/quotes/domain"
	"market_trends/internal/feature/quotes/domain/entity"
)

// mockQuoteFetcher はテスト用のQuoteFetcherモック実装です。
type mockQuoteFetcher struct {
	fetchFn func(ctx context.Context, req entity.QuoteRequest) (entity.RawQuotePayload, error)
	calls   int
}

func (m *mockQuoteFetcher) Fetch(ctx context.Context, req entity.QuoteRequest) (entity.RawQuotePayload, error) {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, req)
	}
	return entity.RawQuotePayload{}, nil
}

func testPayload() entity.RawQuotePayload {
	return entity.RawQuotePayload{
		Symbol: "IBM",
		Entries: []entity.RawEntry{
			{DateKey: "2024-01-03", Fields: map[string]string{"4. close": "101.0"}},
			{DateKey: "2024-01-02", Fields: map[string]string{"4. close": "100.0"}},
		},
	}
}

var ibmFull = entity.QuoteRequest{Symbol: "IBM", OutputSize: entity.OutputSizeFull}

// TestNewCachingQuoteFetcher_Defaults はデフォルトのnamespaceが設定されることを検証します。
func TestNewCachingQuoteFetcher_Defaults(t *testing.T) {
	t.Parallel()

	f := NewCachingQuoteFetcher(nil, 0, &mockQuoteFetcher{}, "")
	if f.namespace != "quotes" {
		t.Errorf("expected namespace %q, got %q", "quotes", f.namespace)
	}

	f = NewCachingQuoteFetcher(nil, time.Minute, &mockQuoteFetcher{}, "custom")
	if f.namespace != "custom" || f.ttl != time.Minute {
		t.Errorf("custom values not preserved: %q %v", f.namespace, f.ttl)
	}
}

// TestCachingQuoteFetcher_NilRedis はRedisがnilの場合に内部のFetcherを直接呼び出すことを検証します。
func TestCachingQuoteFetcher_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockQuoteFetcher{
		fetchFn: func(ctx context.Context, req entity.QuoteRequest) (entity.RawQuotePayload, error) {
			return testPayload(), nil
		},
	}

	f := NewCachingQuoteFetcher(nil, 5*time.Minute, inner, "quotes")
	got, err := f.Fetch(context.Background(), ibmFull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Entries) != 2 || inner.calls != 1 {
		t.Errorf("expected inner to be called once, got %d calls and %d entries", inner.calls, len(got.Entries))
	}
}

// TestCachingQuoteFetcher_CacheHit はキャッシュヒット時に順序を保ったままペイロードを返し、プロバイダーを呼ばないことを検証します。
func TestCachingQuoteFetcher_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal(testPayload())
	mock.ExpectGet("quotes:IBM:full").SetVal(string(cached))

	inner := &mockQuoteFetcher{}
	f := NewCachingQuoteFetcher(rdb, 5*time.Minute, inner, "quotes")

	got, err := f.Fetch(context.Background(), ibmFull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 0 {
		t.Error("inner fetcher should not be called on cache hit")
	}
	if len(got.Entries) != 2 || got.Entries[0].DateKey != "2024-01-03" {
		t.Errorf("entry order not preserved: %+v", got.Entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingQuoteFetcher_CacheMiss はキャッシュミス時にプロバイダーから取得し、キャッシュに保存することを検証します。
func TestCachingQuoteFetcher_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(testPayload())
	mock.ExpectGet("quotes:IBM:full").RedisNil()
	mock.ExpectSet("quotes:IBM:full", expected, 5*time.Minute).SetVal("OK")

	inner := &mockQuoteFetcher{
		fetchFn: func(ctx context.Context, req entity.QuoteRequest) (entity.RawQuotePayload, error) {
			return testPayload(), nil
		},
	}

	f := NewCachingQuoteFetcher(rdb, 5*time.Minute, inner, "quotes")
	if _, err := f.Fetch(context.Background(), ibmFull); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingQuoteFetcher_ProviderErrorNotCached はプロバイダーのエラーがキャッシュされずにそのまま返ることを検証します。
func TestCachingQuoteFetcher_ProviderErrorNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("quotes:IBM:full").RedisNil()

	inner := &mockQuoteFetcher{
		fetchFn: func(ctx context.Context, req entity.QuoteRequest) (entity.RawQuotePayload, error) {
			return entity.RawQuotePayload{}, domain.NewProviderRejectedError("Invalid API call")
		},
	}

	f := NewCachingQuoteFetcher(rdb, 5*time.Minute, inner, "quotes")
	_, err := f.Fetch(context.Background(), ibmFull)

	if !errors.Is(err, domain.ErrProviderRejected) {
		t.Errorf("expected ErrProviderRejected, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingQuoteFetcher_CorruptedCache は破損したキャッシュを削除し、プロバイダーにフォールバックすることを検証します。
func TestCachingQuoteFetcher_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(testPayload())
	mock.ExpectGet("quotes:IBM:full").SetVal("invalid json")
	mock.ExpectDel("quotes:IBM:full").SetVal(1)
	mock.ExpectSet("quotes:IBM:full", expected, 5*time.Minute).SetVal("OK")

	inner := &mockQuoteFetcher{
		fetchFn: func(ctx context.Context, req entity.QuoteRequest) (entity.RawQuotePayload, error) {
			return testPayload(), nil
		},
	}

	f := NewCachingQuoteFetcher(rdb, 5*time.Minute, inner, "quotes")
	if _, err := f.Fetch(context.Background(), ibmFull); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"IBM", "IBM"},
		{"BRK A", "BRK_A"},
		{"key:value", "key_value"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := safe(tt.input); got != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
