package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 5, hour, minute, 0, 0, time.UTC)
}

func TestClassifySession(t *testing.T) {
	tests := []struct {
		name     string
		ts       time.Time
		expected Session
	}{
		{"pre-open", at(9, 0), SessionOpenRush},
		{"open bell", at(9, 30), SessionPowerOpen},
		{"last rush minute", at(9, 20), SessionOpenRush},
		{"rush boundary", at(9, 21), SessionPowerOpen},
		{"power open", at(10, 0), SessionPowerOpen},
		{"power open boundary", at(10, 1), SessionMidday},
		{"midday", at(12, 30), SessionMidday},
		{"last midday minute", at(15, 0), SessionMidday},
		{"power hour", at(15, 1), SessionPowerHour},
		{"close", at(16, 0), SessionPowerHour},
		{"last power minute", at(16, 15), SessionPowerHour},
		{"after hours", at(16, 16), SessionAfterHours},
		{"evening", at(19, 45), SessionAfterHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifySession(tt.ts))
		})
	}
}

func TestFilterMarketHours(t *testing.T) {
	params := config.DayTradeParams()
	stamps := []time.Time{
		at(9, 0),   // premarket, dropped
		at(9, 25),  // premarket, dropped
		at(9, 30),  // open is inclusive
		at(12, 0),  // kept
		at(15, 55), // kept
		at(16, 0),  // close is exclusive
		at(17, 30), // after hours, dropped
	}
	bars := make(models.BarSeries, len(stamps))
	for i, ts := range stamps {
		bars[i] = models.Bar{Timestamp: ts, Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000}
	}

	kept := FilterMarketHours(bars, params)
	assert.Len(t, kept, 3)
	assert.Equal(t, at(9, 30), kept[0].Timestamp)
	assert.Equal(t, at(15, 55), kept[2].Timestamp)
}

func TestFilterMarketHours_DailyModeKeepsEverything(t *testing.T) {
	params := config.SwingParams()
	bars := models.BarSeries{
		{Timestamp: at(0, 0), Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000},
	}
	assert.Len(t, FilterMarketHours(bars, params), 1)
}
