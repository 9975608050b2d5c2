package entity

import (
	"sort"
	"time"
)

// DateLayout は日付キーとAPIパラメータで使用する日付書式です。
const DateLayout = "2006-01-02"

// DailyRecord represents one calendar day's OHLCV observation.
type DailyRecord struct {
	Date   time.Time // UTC midnight of the trading day
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// DateWindow is an inclusive [Start, End] calendar date range.
// A window with Start after End matches nothing.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// NewDateWindow truncates both bounds to UTC calendar dates.
func NewDateWindow(start, end time.Time) DateWindow {
	return DateWindow{Start: TruncateDate(start), End: TruncateDate(end)}
}

// Contains reports whether d falls within the window, inclusive on both ends.
func (w DateWindow) Contains(d time.Time) bool {
	d = TruncateDate(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// TruncateDate returns the UTC midnight of the calendar date of t.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// TimeSeries is an ordered sequence of DailyRecord, strictly increasing by date.
// The zero value is an empty series. Records are never exposed for mutation.
type TimeSeries struct {
	symbol  string
	records []DailyRecord
}

// NewTimeSeries builds a series from records, keeping the last record seen for each date
// and sorting ascending by date. The input slice is not retained.
func NewTimeSeries(symbol string, records []DailyRecord) TimeSeries {
	byDate := make(map[time.Time]int, len(records))
	out := make([]DailyRecord, 0, len(records))
	for _, r := range records {
		r.Date = TruncateDate(r.Date)
		if i, ok := byDate[r.Date]; ok {
			out[i] = r
			continue
		}
		byDate[r.Date] = len(out)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return TimeSeries{symbol: symbol, records: out}
}

// Symbol returns the ticker the series belongs to.
func (s TimeSeries) Symbol() string { return s.symbol }

// Len returns the number of records.
func (s TimeSeries) Len() int { return len(s.records) }

// IsEmpty reports whether the series has no records.
func (s TimeSeries) IsEmpty() bool { return len(s.records) == 0 }

// Records returns a copy of the records in ascending date order.
func (s TimeSeries) Records() []DailyRecord {
	out := make([]DailyRecord, len(s.records))
	copy(out, s.records)
	return out
}

// At returns the i-th record.
func (s TimeSeries) At(i int) DailyRecord { return s.records[i] }

// First returns the earliest record; ok is false for an empty series.
func (s TimeSeries) First() (DailyRecord, bool) {
	if len(s.records) == 0 {
		return DailyRecord{}, false
	}
	return s.records[0], true
}

// Last returns the latest record; ok is false for an empty series.
func (s TimeSeries) Last() (DailyRecord, bool) {
	if len(s.records) == 0 {
		return DailyRecord{}, false
	}
	return s.records[len(s.records)-1], true
}

// Span returns the window covering the first and last dates of the series.
func (s TimeSeries) Span() (DateWindow, bool) {
	first, ok := s.First()
	if !ok {
		return DateWindow{}, false
	}
	last, _ := s.Last()
	return DateWindow{Start: first.Date, End: last.Date}, true
}

// slice returns a new series over records[i:j]; the backing array is copied.
func (s TimeSeries) slice(i, j int) TimeSeries {
	out := make([]DailyRecord, j-i)
	copy(out, s.records[i:j])
	return TimeSeries{symbol: s.symbol, records: out}
}

// Between returns the contiguous sub-series with w.Start <= date <= w.End.
func (s TimeSeries) Between(w DateWindow) TimeSeries {
	if w.Start.After(w.End) {
		return TimeSeries{symbol: s.symbol}
	}
	lo := sort.Search(len(s.records), func(i int) bool { return !s.records[i].Date.Before(w.Start) })
	hi := sort.Search(len(s.records), func(i int) bool { return s.records[i].Date.After(w.End) })
	if lo >= hi {
		return TimeSeries{symbol: s.symbol}
	}
	return s.slice(lo, hi)
}
