// Package usecase は取得・正規化・期間絞り込み・トレンド予測のパイプラインを組み立てます。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	fentity "market_trends/internal/feature/forecast/domain/entity"
	forecastusecase "market_trends/internal/feature/forecast/usecase"
	qentity "market_trends/internal/feature/quotes/domain/entity"
	quotesusecase "market_trends/internal/feature/quotes/usecase"
)

// QuoteFetcher は外部の株価プロバイダーから未加工の時系列を取得します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type QuoteFetcher interface {
	Fetch(ctx context.Context, req qentity.QuoteRequest) (qentity.RawQuotePayload, error)
}

// Request は1回の分析の入力です。
type Request struct {
	Symbol     string
	OutputSize qentity.OutputSize
	Window     qentity.DateWindow
	Horizon    int // 予測日数（1〜365）
}

// Result は1回の分析の出力です。各値は呼び出しごとに新しく生成されます。
type Result struct {
	Symbol   string
	Series   qentity.TimeSeries // 期間で絞り込んだ系列
	Dropped  int                // 正規化で除外されたエントリ数
	Trend    fentity.TrainedTrend
	Forecast fentity.ForecastSeries
}

// AnalysisUsecase は1リクエストごとにパイプラインを先頭から末尾まで実行します。
// 呼び出し間で可変な状態は持ちません。
type AnalysisUsecase struct {
	fetcher    QuoteFetcher
	normalizer *quotesusecase.Normalizer
	model      *forecastusecase.TrendModel
}

// NewAnalysisUsecase は新しい AnalysisUsecase を作成します。
func NewAnalysisUsecase(fetcher QuoteFetcher) *AnalysisUsecase {
	return &AnalysisUsecase{
		fetcher:    fetcher,
		normalizer: quotesusecase.NewNormalizer(),
		model:      forecastusecase.NewTrendModel(),
	}
}

// Run は株価を取得し、正規化、期間絞り込み、トレンド学習、外挿を順に行います。
// 各段のエラーはそのまま（%wで包んで）呼び出し元に返し、内部でリトライはしません。
// 取得エラー時は正規化を行わず、絞り込み結果が空の場合はモデルを呼ばずにErrNoDataInRangeを返します。
func (u *AnalysisUsecase) Run(ctx context.Context, req Request) (Result, error) {
	// ネットワーク呼び出しの前に入力を検証する
	if err := forecastusecase.ValidateHorizon(req.Horizon); err != nil {
		return Result{}, err
	}
	qreq, err := qentity.NewQuoteRequest(req.Symbol, req.OutputSize)
	if err != nil {
		return Result{}, err
	}

	payload, err := u.fetcher.Fetch(ctx, qreq)
	if err != nil {
		slog.Error("failed to fetch quotes", "symbol", qreq.Symbol, "error", err)
		return Result{}, fmt.Errorf("fetch %s: %w", qreq.Symbol, err)
	}

	normalized, err := u.normalizer.Normalize(payload)
	if err != nil {
		return Result{}, fmt.Errorf("normalize %s: %w", qreq.Symbol, err)
	}

	filtered := quotesusecase.Filter(normalized.Series, req.Window)
	if filtered.IsEmpty() {
		return Result{}, fmt.Errorf("%s %s..%s: %w", qreq.Symbol,
			req.Window.Start.Format(qentity.DateLayout), req.Window.End.Format(qentity.DateLayout), ErrNoDataInRange)
	}

	trend, err := u.model.Fit(filtered)
	if err != nil {
		return Result{}, fmt.Errorf("fit %s: %w", qreq.Symbol, err)
	}
	forecast, err := u.model.Forecast(trend, req.Horizon)
	if err != nil {
		return Result{}, fmt.Errorf("forecast %s: %w", qreq.Symbol, err)
	}

	slog.Info("analysis completed",
		"symbol", qreq.Symbol,
		"records", filtered.Len(),
		"dropped", normalized.Dropped,
		"slope", trend.Slope,
		"train_error", trend.TrainError,
		"horizon", req.Horizon,
	)

	return Result{
		Symbol:   qreq.Symbol,
		Series:   filtered,
		Dropped:  normalized.Dropped,
		Trend:    trend,
		Forecast: forecast,
	}, nil
}
