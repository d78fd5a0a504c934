package signal

import (
	"fmt"

	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

// Name identifies one signal in the closed signal set. Only the constants
// below exist; weight maps referencing anything else are rejected at load time
// instead of silently scoring nothing.
type Name string

const (
	EMAAlignment       Name = "ema_alignment"
	RSIPosition        Name = "rsi_position"
	MACDHistogram      Name = "macd_histogram"
	BollingerPosition  Name = "bollinger_position"
	BBSqueeze          Name = "bb_squeeze"
	VWAPDeviation      Name = "vwap_deviation"
	CallPutRatio       Name = "call_put_ratio"
	SweepActivity      Name = "sweep_activity"
	DarkPoolDirection  Name = "dark_pool_direction"
	InsiderCongress    Name = "insider_congress"
	GEXPositioning     Name = "gex_positioning"
	IVRank             Name = "iv_rank"
	ShortInterest      Name = "short_interest"
	VolumeSpike        Name = "volume_spike"
	RegimeAlignment    Name = "regime_alignment"
	GammaWall          Name = "gamma_wall"
	IVSkew             Name = "iv_skew"
	CandlestickPattern Name = "candlestick_pattern"
	NewsSentiment      Name = "news_sentiment"
	MultiTFConfluence  Name = "multi_tf_confluence"
	RSIDivergence      Name = "rsi_divergence"
	ADXFilter          Name = "adx_filter"
	VolatilityRunner   Name = "volatility_runner"
	NetPremiumMomentum Name = "net_premium_momentum"
	StrikeFlowLevels   Name = "strike_flow_levels"
	GreekFlowMomentum  Name = "greek_flow_momentum"
	SectorTide         Name = "sector_tide_alignment"
	ETFTideMacro       Name = "etf_tide_macro"
	SqueezeComposite   Name = "squeeze_composite"
	Seasonality        Name = "seasonality_alignment"
	VolRegime          Name = "vol_regime"
	InsiderConviction  Name = "insider_conviction"
	SpotGammaPin       Name = "spot_gamma_pin"
	FlowHorizon        Name = "flow_horizon"
	VolumeDirection    Name = "volume_direction"
	EarningsGapTrade   Name = "earnings_gap_trade"
)

// all is the fixed iteration order for scoring, so sums are reproducible
// regardless of how a weight map was assembled
var all = []Name{
	EMAAlignment, RSIPosition, MACDHistogram, BollingerPosition, BBSqueeze,
	VWAPDeviation, CallPutRatio, SweepActivity, DarkPoolDirection,
	InsiderCongress, GEXPositioning, IVRank, ShortInterest, VolumeSpike,
	RegimeAlignment, GammaWall, IVSkew, CandlestickPattern, NewsSentiment,
	MultiTFConfluence, RSIDivergence, ADXFilter, VolatilityRunner,
	NetPremiumMomentum, StrikeFlowLevels, GreekFlowMomentum, SectorTide,
	ETFTideMacro, SqueezeComposite, Seasonality, VolRegime, InsiderConviction,
	SpotGammaPin, FlowHorizon, VolumeDirection, EarningsGapTrade,
}

// All returns every signal name in scoring order
func All() []Name {
	out := make([]Name, len(all))
	copy(out, all)
	return out
}

// Valid reports whether n is part of the closed signal set
func (n Name) Valid() bool {
	for _, known := range all {
		if n == known {
			return true
		}
	}
	return false
}

// Weights maps each signal to its non-negative integer weight. Signals absent
// from the map, or weighted zero, contribute nothing to scoring.
type Weights map[Name]int

// Validate rejects unknown signal names and negative weights
func (w Weights) Validate() error {
	for name, weight := range w {
		if !name.Valid() {
			return fmt.Errorf("%w: %q", models.ErrUnknownSignal, name)
		}
		if weight < 0 {
			return fmt.Errorf("weight for %q must be non-negative, got %d", name, weight)
		}
	}
	return nil
}

// Clone returns an independent copy of the weight map
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// DefaultWeights returns the baseline signal weights. These are empirically
// chosen starting values, expected to be recalibrated against fresh accuracy
// runs rather than treated as ground truth.
func DefaultWeights() Weights {
	return Weights{
		EMAAlignment:       5,
		RSIPosition:        3,
		MACDHistogram:      2,
		BollingerPosition:  1,
		BBSqueeze:          2,
		VWAPDeviation:      2,
		CallPutRatio:       3,
		SweepActivity:      2,
		DarkPoolDirection:  4,
		InsiderCongress:    1,
		GEXPositioning:     2,
		IVRank:             1,
		ShortInterest:      1,
		VolumeSpike:        2,
		RegimeAlignment:    3,
		GammaWall:          2,
		IVSkew:             1,
		CandlestickPattern: 2,
		NewsSentiment:      2,
		MultiTFConfluence:  5,
		RSIDivergence:      3,
		ADXFilter:          0,
		VolatilityRunner:   5,
		NetPremiumMomentum: 5,
		StrikeFlowLevels:   4,
		GreekFlowMomentum:  4,
		SectorTide:         3,
		ETFTideMacro:       3,
		SqueezeComposite:   5,
		Seasonality:        2,
		VolRegime:          3,
		InsiderConviction:  3,
		SpotGammaPin:       3,
		FlowHorizon:        2,
		VolumeDirection:    3,
		EarningsGapTrade:   6,
	}
}
