// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"market_trends/internal/feature/analysis/domain/entity"
	"market_trends/internal/feature/analysis/transport/http/dto"
	"market_trends/internal/feature/analysis/usecase"
	forecastdomain "market_trends/internal/feature/forecast/domain"
	quotesdomain "market_trends/internal/feature/quotes/domain"
	qentity "market_trends/internal/feature/quotes/domain/entity"
	jwtmw "market_trends/internal/platform/jwt"
)

// AnalysisUsecase は分析パイプラインのユースケースを定義します。
type AnalysisUsecase interface {
	Run(ctx context.Context, req usecase.Request) (usecase.Result, error)
}

// AnalysisHandler は GET /analysis/:symbol を処理します。
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler はAnalysisHandlerの新しいインスタンスを生成します。
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// GetAnalysis は株価を取得し、期間で絞り込んだ系列とトレンド予測を返します。
// - クエリ不正・未知のチャート・予測日数の範囲外は400
// - 期間内にデータがない場合は404
// - レコードが2件未満の場合は422
// - 外部APIのエラーは502
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	session := jwtmw.SessionFromContext(c)
	symbol := strings.TrimSpace(c.Param("symbol"))

	var q dto.AnalysisQuery
	if err := defaults.Set(&q); err != nil {
		slog.Error("failed to apply query defaults", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		return
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		slog.Warn("analysis query validation failed", "error", err, "symbol", symbol, "user", session.Username)
		c.JSON(http.StatusBadRequest, validationError(err))
		return
	}

	// パイはスキップして警告のみ返す。未知の種類は400
	chart, chartErr := entity.ParseChartKind(q.Chart)
	var chartSpec *entity.ChartSpec
	var warning string
	switch {
	case chartErr == nil:
		chartSpec = &chart
	case errors.Is(chartErr, entity.ErrUnsupportedChart):
		warning = chartErr.Error()
	default:
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: chartErr.Error()})
		return
	}

	outputSize, _ := qentity.ParseOutputSize(q.OutputSize)
	// 日付形式はbindingで検証済み
	start, _ := qentity.ParseDate(q.Start)
	end, _ := qentity.ParseDate(q.End)

	res, err := h.uc.Run(c.Request.Context(), usecase.Request{
		Symbol:     symbol,
		OutputSize: outputSize,
		Window:     qentity.NewDateWindow(start, end),
		Horizon:    q.Horizon,
	})
	if err != nil {
		status, msg := statusFor(err)
		slog.Warn("analysis failed", "error", err, "symbol", symbol, "user", session.Username, "status", status)
		c.JSON(status, dto.ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, toResponse(res, session.Username, q, chartSpec, warning))
}

// statusFor はユースケースのエラーをHTTPステータスとクライアント向けメッセージに変換します。
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, qentity.ErrEmptySymbol):
		return http.StatusBadRequest, "symbol is required"
	case errors.Is(err, forecastdomain.ErrInvalidHorizon):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, usecase.ErrNoDataInRange):
		return http.StatusNotFound, "no data in the selected date range"
	case errors.Is(err, forecastdomain.ErrInsufficientData):
		return http.StatusUnprocessableEntity, "not enough data points to fit a trend"
	case errors.Is(err, quotesdomain.ErrProviderRejected):
		var fe *quotesdomain.FetchError
		if errors.As(err, &fe) {
			return http.StatusBadGateway, fe.Detail
		}
		return http.StatusBadGateway, "quote provider rejected the request"
	case errors.Is(err, quotesdomain.ErrEmptySeries):
		return http.StatusBadGateway, "quote provider returned no usable records"
	case errors.Is(err, quotesdomain.ErrTransport):
		return http.StatusBadGateway, "quote provider unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// validationError はvalidator v10のエラーをフィールドごとの詳細に変換します。
func validationError(err error) dto.ErrorResponse {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return dto.ErrorResponse{Error: err.Error()}
	}
	details := make([]dto.FieldError, 0, len(ves))
	for _, fe := range ves {
		details = append(details, dto.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldMessage(fe),
		})
	}
	return dto.ErrorResponse{Error: "invalid query", Details: details}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

func toResponse(res usecase.Result, user string, q dto.AnalysisQuery, chart *entity.ChartSpec, warning string) dto.AnalysisResponse {
	records := res.Series.Records()
	out := dto.AnalysisResponse{
		Symbol:   res.Symbol,
		User:     user,
		Start:    q.Start,
		End:      q.End,
		Records:  make([]dto.RecordResponse, 0, len(records)),
		Dropped:  res.Dropped,
		Chart:    chart,
		Warning:  warning,
		Forecast: make([]dto.ForecastPointResponse, 0, len(res.Forecast)),
		Trend: dto.TrendResponse{
			Slope:      res.Trend.Slope,
			Intercept:  res.Trend.Intercept,
			OriginDate: res.Trend.OriginDate.Format(qentity.DateLayout),
			TrainError: res.Trend.TrainError,
			TrainSize:  res.Trend.TrainSize,
			TestSize:   res.Trend.TestSize,
		},
	}
	for _, r := range records {
		out.Records = append(out.Records, dto.RecordResponse{
			Date:   r.Date.Format(qentity.DateLayout),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	for _, p := range res.Forecast {
		out.Forecast = append(out.Forecast, dto.ForecastPointResponse{
			DayOffset:      p.DayOffset,
			Date:           p.Date.Format(qentity.DateLayout),
			PredictedClose: p.PredictedClose,
		})
	}
	return out
}
