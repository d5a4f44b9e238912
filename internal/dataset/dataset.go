// Package dataset loads raw scraped price CSVs and normalizes them into a
// canonical schema: one row per (symbol, datetime) with typed prices, the
// raw unadjusted close, and the scrape request time used for deduplication.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/amirphl/simple-indicators/internal/series"
)

// Datetime layouts used by the scraped CSVs.
const (
	DateFormat   = "2006_01_02"
	SecondFormat = "2006_01_02 15;04;05"
)

// minRequestTime is the sentinel for rows scraped before request times were
// recorded; it sorts before any real scrape.
var minRequestTime = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Row is one cleaned observation in the canonical schema.
type Row struct {
	DateTime    time.Time
	Symbol      string
	Open        float64
	High        float64
	Low         float64
	Close       float64
	RawClose    float64
	Volume      float64
	RequestTime time.Time

	// Adjusted prices, populated by AdjustPrices.
	OpenAdjusted float64
	HighAdjusted float64
	LowAdjusted  float64
}

// Validate checks that a row carries usable data.
func (r *Row) Validate() error {
	if r.DateTime.IsZero() {
		return errors.New("row datetime is zero")
	}
	if r.Symbol == "" {
		return errors.New("row symbol cannot be empty")
	}
	if r.Open <= 0 || r.High <= 0 || r.Low <= 0 || r.Close <= 0 {
		return errors.New("row prices must be positive")
	}
	if r.High < r.Low {
		return errors.New("row high cannot be less than low")
	}
	if r.Volume < 0 {
		return errors.New("row volume cannot be negative")
	}
	return nil
}

// DefaultFieldmap maps canonical field names to the column names the default
// scrape source writes.
func DefaultFieldmap() map[string]string {
	return map[string]string{
		"datetime":     "DATETIME",
		"symbol":       "SYMBOL",
		"open":         "OPEN",
		"high":         "HIGH",
		"low":          "LOW",
		"close":        "CLOSE",
		"raw_close":    "RAW_CLOSE",
		"volume":       "VOLUME",
		"request_time": "REQUEST_TIME",
	}
}

// DedupeByRequestTime removes duplicate periods left by repeated scrapes,
// keeping the most recently scraped row per (symbol, datetime). Rows without
// a request time sort first and so lose to any real scrape.
func DedupeByRequestTime(rows []Row) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	for i := range sorted {
		if sorted[i].RequestTime.IsZero() {
			sorted[i].RequestTime = minRequestTime
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		if !a.DateTime.Equal(b.DateTime) {
			return a.DateTime.Before(b.DateTime)
		}
		if !a.RequestTime.Equal(b.RequestTime) {
			return a.RequestTime.Before(b.RequestTime)
		}
		return a.Volume < b.Volume
	})

	var out []Row
	for i, r := range sorted {
		last := i == len(sorted)-1 ||
			sorted[i+1].Symbol != r.Symbol ||
			!sorted[i+1].DateTime.Equal(r.DateTime)
		if last {
			out = append(out, r)
		}
	}
	return out
}

// AdjustPrices fills the adjusted open/high/low columns using the ratio
// between the (split/dividend adjusted) close and the raw close.
func AdjustPrices(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	for i := range out {
		factor := out[i].Close / out[i].RawClose
		out[i].OpenAdjusted = out[i].Open * factor
		out[i].HighAdjusted = out[i].High * factor
		out[i].LowAdjusted = out[i].Low * factor
	}
	return out
}

// FieldSeries extracts one symbol's values for a canonical field as a
// time-indexed series named "<SYMBOL> <field>", ready for the indicator
// engine.
func FieldSeries(rows []Row, symbol, field string) (series.Series, error) {
	symbol = strings.ToUpper(symbol)
	pick, err := fieldGetter(field)
	if err != nil {
		return series.Series{}, err
	}
	out := series.Series{Name: fmt.Sprintf("%s %s", symbol, field)}
	for _, r := range rows {
		if r.Symbol != symbol {
			continue
		}
		out.Points = append(out.Points, series.Point{Time: r.DateTime, Value: pick(r)})
	}
	return out, nil
}

// CloseSeries is FieldSeries for the adjusted close.
func CloseSeries(rows []Row, symbol string) series.Series {
	s, _ := FieldSeries(rows, symbol, "close")
	return s
}

func fieldGetter(field string) (func(Row) float64, error) {
	switch strings.ToLower(field) {
	case "open":
		return func(r Row) float64 { return r.Open }, nil
	case "high":
		return func(r Row) float64 { return r.High }, nil
	case "low":
		return func(r Row) float64 { return r.Low }, nil
	case "close":
		return func(r Row) float64 { return r.Close }, nil
	case "raw_close":
		return func(r Row) float64 { return r.RawClose }, nil
	case "volume":
		return func(r Row) float64 { return r.Volume }, nil
	case "open_adjusted":
		return func(r Row) float64 { return r.OpenAdjusted }, nil
	case "high_adjusted":
		return func(r Row) float64 { return r.HighAdjusted }, nil
	case "low_adjusted":
		return func(r Row) float64 { return r.LowAdjusted }, nil
	default:
		return nil, fmt.Errorf("unknown field: %s", field)
	}
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}
