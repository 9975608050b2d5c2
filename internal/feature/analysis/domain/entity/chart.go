// Package entity defines the domain models for the analysis feature.
package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedChart is returned for the pie selector, which does not fit price series.
	ErrUnsupportedChart = errors.New("pie charts are not suitable for stock data")

	// ErrUnknownChart is returned for selectors outside the closed set.
	ErrUnknownChart = errors.New("unknown chart kind")
)

// ChartKind selects how the presentation layer renders the filtered series.
type ChartKind string

const (
	ChartLine      ChartKind = "line"
	ChartBar       ChartKind = "bar"
	ChartScatter   ChartKind = "scatter"
	ChartHistogram ChartKind = "histogram"
	ChartBox       ChartKind = "box"

	chartPie = "pie"
)

// ChartSpec describes what a chart kind plots.
type ChartSpec struct {
	Kind   ChartKind `json:"kind"`
	XAxis  string    `json:"x_axis,omitempty"` // empty for distribution plots
	YAxis  string    `json:"y_axis"`
	Series string    `json:"series"`
}

// chartSpecs is the dispatch table for the supported chart kinds.
var chartSpecs = map[ChartKind]ChartSpec{
	ChartLine:      {Kind: ChartLine, XAxis: "date", YAxis: "close", Series: "close"},
	ChartBar:       {Kind: ChartBar, XAxis: "date", YAxis: "close", Series: "close"},
	ChartScatter:   {Kind: ChartScatter, XAxis: "date", YAxis: "close", Series: "close"},
	ChartHistogram: {Kind: ChartHistogram, YAxis: "count", Series: "close"},
	ChartBox:       {Kind: ChartBox, YAxis: "close", Series: "close"},
}

// ParseChartKind validates a selector against the closed set of chart kinds.
// "pie" yields ErrUnsupportedChart; anything else unrecognized yields ErrUnknownChart.
func ParseChartKind(s string) (ChartSpec, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	if k == chartPie {
		return ChartSpec{}, ErrUnsupportedChart
	}
	spec, ok := chartSpecs[ChartKind(k)]
	if !ok {
		return ChartSpec{}, fmt.Errorf("%w: %q", ErrUnknownChart, s)
	}
	return spec, nil
}

// ChartKinds returns the supported kinds in display order.
func ChartKinds() []ChartKind {
	return []ChartKind{ChartLine, ChartBar, ChartScatter, ChartHistogram, ChartBox}
}
