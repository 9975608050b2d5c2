// Package usecase は終値の線形トレンドの学習と外挿を実装します。
package usecase

import (
	"fmt"
	"math/rand/v2"
	"time"

	"market_trends/internal/feature/forecast/domain"
	"market_trends/internal/feature/forecast/domain/entity"
	qentity "market_trends/internal/feature/quotes/domain/entity"
)

const (
	// SplitSeed は学習/評価分割のシャッフルに使う固定シードです。
	SplitSeed uint64 = 42
	// TestPercent は評価用に確保するサンプルの割合（%）です。
	TestPercent = 20
	// MinHorizon と MaxHorizon は予測日数の許容範囲です。
	MinHorizon = 1
	MaxHorizon = 365
	// minRecords は学習に必要な最小レコード数です。
	minRecords = 2
)

const day = 24 * time.Hour

// TrendModel は経過日数と終値の単回帰モデルを学習します。
// 分割は固定シードで行うため、同じ入力に対して常に同じパラメータを返します。
type TrendModel struct {
	seed uint64
}

// NewTrendModel はSplitSeedを使うTrendModelを生成します。
func NewTrendModel() *TrendModel {
	return &TrendModel{seed: SplitSeed}
}

// Split はn個のサンプルを学習用と評価用のインデックスに分割します。
// 評価用は ceil(n*TestPercent/100) 件で、学習用が最低1件残るように調整します。
func (m *TrendModel) Split(n int) (train, test []int) {
	if n <= 0 {
		return nil, nil
	}
	perm := rand.New(rand.NewPCG(m.seed, m.seed)).Perm(n)
	nTest := (n*TestPercent + 99) / 100
	if nTest >= n {
		nTest = n - 1
	}
	return perm[nTest:], perm[:nTest]
}

// Fit は系列の最古の日付を0日目として、学習用サブセットに最小二乗法で直線を当てはめます。
// TrainErrorは評価用サブセットの平均二乗誤差で、成否の判定には使いません。
func (m *TrendModel) Fit(series qentity.TimeSeries) (entity.TrainedTrend, error) {
	if series.Len() < minRecords {
		return entity.TrainedTrend{}, &domain.ModelError{
			Kind:   domain.ErrInsufficientData,
			Detail: fmt.Sprintf("need at least %d records, got %d", minRecords, series.Len()),
		}
	}

	first, _ := series.First()
	origin := first.Date
	xs := make([]float64, series.Len())
	ys := make([]float64, series.Len())
	for i := 0; i < series.Len(); i++ {
		r := series.At(i)
		xs[i] = float64(dayOffset(origin, r.Date))
		ys[i] = r.Close
	}

	train, test := m.Split(len(xs))
	slope, intercept := leastSquares(xs, ys, train)

	var sse float64
	for _, i := range test {
		d := slope*xs[i] + intercept - ys[i]
		sse += d * d
	}
	mse := 0.0
	if len(test) > 0 {
		mse = sse / float64(len(test))
	}

	last, _ := series.Last()
	return entity.TrainedTrend{
		Slope:         slope,
		Intercept:     intercept,
		OriginDate:    origin,
		LastDayOffset: dayOffset(origin, last.Date),
		TrainError:    mse,
		TrainSize:     len(train),
		TestSize:      len(test),
	}, nil
}

// Forecast は最終観測日の翌日からhorizonDays日分の終値を直線で外挿します。
// 負の価格などの非現実的な値も補正せずにそのまま返します。
func (m *TrendModel) Forecast(trend entity.TrainedTrend, horizonDays int) (entity.ForecastSeries, error) {
	if err := ValidateHorizon(horizonDays); err != nil {
		return nil, err
	}
	out := make(entity.ForecastSeries, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		d := trend.LastDayOffset + i
		out = append(out, entity.ForecastPoint{
			DayOffset:      d,
			Date:           trend.OriginDate.AddDate(0, 0, d),
			PredictedClose: trend.Predict(d),
		})
	}
	return out, nil
}

// ValidateHorizon は予測日数が [MinHorizon, MaxHorizon] に収まっているか検証します。
func ValidateHorizon(horizonDays int) error {
	if horizonDays < MinHorizon || horizonDays > MaxHorizon {
		return &domain.ModelError{
			Kind:   domain.ErrInvalidHorizon,
			Detail: fmt.Sprintf("horizon must be between %d and %d, got %d", MinHorizon, MaxHorizon, horizonDays),
		}
	}
	return nil
}

// leastSquares は指定インデックスのサンプルで y = slope*x + intercept を推定します。
// xの分散が0の場合は傾き0、切片はyの平均とします。
func leastSquares(xs, ys []float64, idx []int) (slope, intercept float64) {
	n := float64(len(idx))
	var sumX, sumY float64
	for _, i := range idx {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy float64
	for _, i := range idx {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 {
		return 0, meanY
	}
	slope = sxy / sxx
	return slope, meanY - slope*meanX
}

// dayOffset はoriginからdまでの暦日数です。
func dayOffset(origin, d time.Time) int {
	return int(d.Sub(origin) / day)
}
