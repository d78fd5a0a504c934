package models

import (
	"sort"
	"time"
)

// Bar represents one OHLCV sample for a fixed time interval
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	VWAP      float64   `json:"vwap,omitempty"` // 0 when the provider did not supply one
}

// Validate validates a Bar
func (b *Bar) Validate() error {
	if b.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	if b.High < b.Low {
		return ErrInvalidBar
	}
	if b.High < b.Open || b.High < b.Close {
		return ErrInvalidBar
	}
	if b.Low > b.Open || b.Low > b.Close {
		return ErrInvalidBar
	}
	if b.Volume < 0 {
		return ErrInvalidVolume
	}
	return nil
}

// BarSeries is an ordered sequence of bars with strictly increasing timestamps
type BarSeries []Bar

// Validate checks ordering and per-bar invariants for the whole series
func (s BarSeries) Validate() error {
	for i := range s {
		if err := s[i].Validate(); err != nil {
			return err
		}
		if i > 0 && !s[i].Timestamp.After(s[i-1].Timestamp) {
			return ErrUnorderedBars
		}
	}
	return nil
}

// Normalize sorts the series ascending and removes duplicate timestamps,
// keeping the latest occurrence of each (provider rows can arrive out of order)
func (s BarSeries) Normalize() BarSeries {
	if len(s) == 0 {
		return s
	}
	out := make(BarSeries, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	dedup := out[:0]
	for _, b := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Timestamp.Equal(b.Timestamp) {
			dedup[n-1] = b
			continue
		}
		dedup = append(dedup, b)
	}
	return dedup
}

// Opens returns the open column as a slice aligned to the series
func (s BarSeries) Opens() []float64 { return s.column(func(b Bar) float64 { return b.Open }) }

// Highs returns the high column as a slice aligned to the series
func (s BarSeries) Highs() []float64 { return s.column(func(b Bar) float64 { return b.High }) }

// Lows returns the low column as a slice aligned to the series
func (s BarSeries) Lows() []float64 { return s.column(func(b Bar) float64 { return b.Low }) }

// Closes returns the close column as a slice aligned to the series
func (s BarSeries) Closes() []float64 { return s.column(func(b Bar) float64 { return b.Close }) }

// Volumes returns the volume column as a slice aligned to the series
func (s BarSeries) Volumes() []float64 { return s.column(func(b Bar) float64 { return b.Volume }) }

// VWAPs returns the provider VWAP column; entries are 0 where absent
func (s BarSeries) VWAPs() []float64 { return s.column(func(b Bar) float64 { return b.VWAP }) }

// HasVWAP reports whether the provider supplied a VWAP for every bar
func (s BarSeries) HasVWAP() bool {
	for i := range s {
		if s[i].VWAP == 0 {
			return false
		}
	}
	return len(s) > 0
}

func (s BarSeries) column(f func(Bar) float64) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = f(s[i])
	}
	return out
}

// Direction is the predicted price direction for a bar
type Direction int

const (
	Bear    Direction = -1
	Neutral Direction = 0
	Bull    Direction = 1
)

// String returns the human-readable direction name
func (d Direction) String() string {
	switch d {
	case Bull:
		return "BULL"
	case Bear:
		return "BEAR"
	default:
		return "NEUTRAL"
	}
}

// ScoreRow holds the aggregated signal scores for a single bar
type ScoreRow struct {
	BullScore  float64   `json:"bull_score"`
	BearScore  float64   `json:"bear_score"`
	NetScore   float64   `json:"net_score"`
	Confidence float64   `json:"confidence"` // 0-100
	Direction  Direction `json:"direction"`
}

// HorizonOutcome records what actually happened at one forward horizon
type HorizonOutcome struct {
	ChangePct       float64 `json:"change_pct"`
	Correct         bool    `json:"correct"`
	DirectionalMove float64 `json:"dir_move"` // positive when the call was right, sign-flipped for BEAR
}

// Prediction is one above-threshold directional call and its measured outcomes.
// It is created once by the validator and never mutated afterward.
type Prediction struct {
	Timestamp  time.Time                 `json:"timestamp"`
	EntryPrice float64                   `json:"entry_price"`
	Direction  Direction                 `json:"direction"`
	Confidence float64                   `json:"confidence"`
	BullScore  float64                   `json:"bull_score"`
	BearScore  float64                   `json:"bear_score"`
	Outcomes   map[string]HorizonOutcome `json:"outcomes"`          // keyed by horizon label
	MFE        float64                   `json:"mfe"`               // max favorable excursion, %
	MAE        float64                   `json:"mae"`               // max adverse excursion, %
	Session    string                    `json:"session,omitempty"` // intraday mode only
	Setup      string                    `json:"setup,omitempty"`   // set when sourced from the setup detector
}

// SetupEvent is one bar where a named conjunctive setup triggered
type SetupEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Setup       string    `json:"setup"`
	Direction   Direction `json:"direction"`
	EntryPrice  float64   `json:"entry_price"`
	RSI         float64   `json:"rsi_at_entry"`
	VolumeRatio float64   `json:"vol_ratio_at_entry"`
}
