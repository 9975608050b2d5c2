// Package entity defines the domain models for the forecast feature.
package entity

import "time"

// TrainedTrend is a fitted linear relationship between elapsed calendar days and closing price.
// It is created per request and never persisted.
type TrainedTrend struct {
	Slope         float64   // price change per calendar day
	Intercept     float64   // predicted close at day 0
	OriginDate    time.Time // date treated as day 0 (earliest date of the fitted series)
	LastDayOffset int       // day offset of the latest observed record
	TrainError    float64   // mean squared error on the held-out subset
	TrainSize     int
	TestSize      int
}

// Predict evaluates the line at the given day offset.
func (t TrainedTrend) Predict(dayOffset int) float64 {
	return t.Slope*float64(dayOffset) + t.Intercept
}

// ForecastPoint is one extrapolated day.
type ForecastPoint struct {
	DayOffset      int       // days since OriginDate, always > LastDayOffset
	Date           time.Time // OriginDate + DayOffset days
	PredictedClose float64
}

// ForecastSeries is an ordered sequence of ForecastPoint, one per horizon day.
type ForecastSeries []ForecastPoint
