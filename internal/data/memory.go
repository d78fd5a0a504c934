package data

import (
	"context"

	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

// MemorySource is an in-memory BarSource for tests and offline runs
type MemorySource struct {
	daily    map[string]models.BarSeries
	intraday map[string]models.BarSeries
	err      error
}

// NewMemorySource creates an empty in-memory source
func NewMemorySource() *MemorySource {
	return &MemorySource{
		daily:    make(map[string]models.BarSeries),
		intraday: make(map[string]models.BarSeries),
	}
}

// SetDaily registers daily bars for a ticker
func (m *MemorySource) SetDaily(ticker string, bars models.BarSeries) {
	m.daily[ticker] = bars
}

// SetIntraday registers intraday bars for a ticker
func (m *MemorySource) SetIntraday(ticker string, bars models.BarSeries) {
	m.intraday[ticker] = bars
}

// Fail makes every subsequent call return err
func (m *MemorySource) Fail(err error) {
	m.err = err
}

func (m *MemorySource) Daily(_ context.Context, ticker string, _ int) (models.BarSeries, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.daily[ticker], nil
}

func (m *MemorySource) Intraday(_ context.Context, ticker string, _, _ int) (models.BarSeries, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.intraday[ticker], nil
}
