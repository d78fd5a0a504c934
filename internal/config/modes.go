package config

// Mode selects which bar cadence and forward horizons a run measures
type Mode string

const (
	ModeScalp Mode = "scalp"
	ModeDay   Mode = "day"
	ModeSwing Mode = "swing"
)

// ModeParams holds the measurement parameters for one backtest mode.
// Horizons are forward bar counts, Labels their human names, index-aligned.
type ModeParams struct {
	Mode         Mode
	BarMinutes   int // 0 means daily bars
	Horizons     []int
	Labels       []string
	LookbackDays int

	// MinBars is the minimum series length to attempt scoring
	MinBars int
	// MinSetupBars is the minimum series length to attempt setup detection
	MinSetupBars int

	ConfidenceThreshold float64
	ConfidenceBins      []int

	// Market hours in minutes from midnight ET, intraday modes only
	MarketOpenMinute  int
	MarketCloseMinute int
}

// Intraday reports whether this mode scores sub-daily bars
func (p ModeParams) Intraday() bool { return p.BarMinutes > 0 }

// MaxHorizon returns the furthest forward bar count
func (p ModeParams) MaxHorizon() int {
	max := 0
	for _, h := range p.Horizons {
		if h > max {
			max = h
		}
	}
	return max
}

// ScalpParams returns measurement parameters for 1-minute bars
func ScalpParams() ModeParams {
	return ModeParams{
		Mode:                ModeScalp,
		BarMinutes:          1,
		Horizons:            []int{1, 3, 5, 10},
		Labels:              []string{"1min", "3min", "5min", "10min"},
		LookbackDays:        14,
		MinBars:             100,
		MinSetupBars:        200,
		ConfidenceThreshold: 65,
		ConfidenceBins:      []int{65, 70, 75, 80},
		MarketOpenMinute:    9*60 + 30,
		MarketCloseMinute:   16 * 60,
	}
}

// DayTradeParams returns measurement parameters for 5-minute bars.
// 3 bars = 15min, 6 = 30min, 12 = 1hr, 24 = 2hr.
func DayTradeParams() ModeParams {
	return ModeParams{
		Mode:                ModeDay,
		BarMinutes:          5,
		Horizons:            []int{3, 6, 12, 24},
		Labels:              []string{"15min", "30min", "1hr", "2hr"},
		LookbackDays:        60,
		MinBars:             100,
		MinSetupBars:        200,
		ConfidenceThreshold: 65,
		ConfidenceBins:      []int{65, 70, 75, 80},
		MarketOpenMinute:    9*60 + 30,
		MarketCloseMinute:   16 * 60,
	}
}

// SwingParams returns measurement parameters for daily bars
func SwingParams() ModeParams {
	return ModeParams{
		Mode:                ModeSwing,
		BarMinutes:          0,
		Horizons:            []int{1, 2, 3, 5},
		Labels:              []string{"1d", "2d", "3d", "5d"},
		LookbackDays:        365,
		MinBars:             50,
		MinSetupBars:        200,
		ConfidenceThreshold: 65,
		ConfidenceBins:      []int{65, 70, 75, 80},
	}
}

// ParamsFor maps a mode name to its parameters, defaulting to day trade
func ParamsFor(mode Mode) ModeParams {
	switch mode {
	case ModeScalp:
		return ScalpParams()
	case ModeSwing:
		return SwingParams()
	default:
		return DayTradeParams()
	}
}
