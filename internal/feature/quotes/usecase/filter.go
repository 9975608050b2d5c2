package usecase

import "market_trends/internal/feature/quotes/domain/entity"

// Filter は期間ウィンドウに含まれるレコード（両端を含む）からなる新しいTimeSeriesを返します。
// 元の系列は変更しません。該当レコードがない場合や開始日が終了日より後の場合は空の系列を返します。
func Filter(series entity.TimeSeries, window entity.DateWindow) entity.TimeSeries {
	return series.Between(entity.NewDateWindow(window.Start, window.End))
}
