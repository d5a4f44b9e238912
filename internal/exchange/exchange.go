// Package exchange
package exchange

import (
	"context"
	"strings"
	"time"

	"github.com/amirphl/simple-indicators/internal/dataset"
)

// Exchange is the interface for market-data sources that can backfill the
// dataset with fresh candles in the canonical row schema.
type Exchange interface {
	Name() string
	FetchCandles(ctx context.Context, symbol, timeframe string, start, end time.Time) ([]dataset.Row, error)
	FetchLatestCandles(ctx context.Context, symbol, timeframe string, count int) ([]dataset.Row, error)
}

// NormalizeSymbol converts e.g. btc-usdt to BTCUSDT for the Wallex API
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "-", ""))
}

// NormalizedTimeframe maps "5m" style timeframes to the API's resolution codes.
func NormalizedTimeframe(timeframe string) string {
	return strings.TrimSuffix(timeframe, "m")
}
