package backtest

import (
	"time"

	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

// Session labels the intraday bucket a prediction was made in.
// Boundaries follow the live scanner's session multipliers.
type Session string

const (
	SessionOpenRush   Session = "OPEN_RUSH"
	SessionPowerOpen  Session = "POWER_OPEN"
	SessionMidday     Session = "MIDDAY"
	SessionPowerHour  Session = "POWER_HOUR"
	SessionAfterHours Session = "AFTER_HOURS"
)

// ClassifySession buckets a bar timestamp by ET wall-clock minute.
// The timestamp is expected to already carry an Eastern-time wall clock,
// which is how the fetcher stores bars.
func ClassifySession(t time.Time) Session {
	timeOfDay := t.Hour()*60 + t.Minute() // minutes since midnight

	switch {
	case timeOfDay < 9*60+21:
		return SessionOpenRush
	case timeOfDay < 10*60+1:
		return SessionPowerOpen
	case timeOfDay < 15*60+1:
		return SessionMidday
	case timeOfDay < 16*60+16:
		return SessionPowerHour
	default:
		return SessionAfterHours
	}
}

// FilterMarketHours keeps bars inside regular trading hours.
// The open is inclusive, the close exclusive.
func FilterMarketHours(bars models.BarSeries, params config.ModeParams) models.BarSeries {
	if !params.Intraday() {
		return bars
	}
	out := make(models.BarSeries, 0, len(bars))
	for _, b := range bars {
		timeOfDay := b.Timestamp.Hour()*60 + b.Timestamp.Minute()
		if timeOfDay >= params.MarketOpenMinute && timeOfDay < params.MarketCloseMinute {
			out = append(out, b)
		}
	}
	return out
}
