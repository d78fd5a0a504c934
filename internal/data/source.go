package data

import (
	"context"
	"errors"

	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

var (
	// ErrRequestFailed is returned when the upstream API rejects a request
	ErrRequestFailed = errors.New("aggregate request failed")
	// ErrMissingAPIKey is returned when no API key is configured
	ErrMissingAPIKey = errors.New("polygon api key is not set")
)

// BarSource provides historical OHLCV bars for a ticker.
// An empty series with a nil error means the provider has no data for the
// requested range.
type BarSource interface {
	// Daily fetches daily bars covering the trailing lookback window
	Daily(ctx context.Context, ticker string, lookbackDays int) (models.BarSeries, error)

	// Intraday fetches minute-aggregate bars at the given interval
	Intraday(ctx context.Context, ticker string, intervalMin, lookbackDays int) (models.BarSeries, error)
}
