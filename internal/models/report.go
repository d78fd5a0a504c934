package models

// HorizonStats holds accuracy figures for one forward horizon
type HorizonStats struct {
	Accuracy           float64  `json:"accuracy"`     // % of predictions where the call was right
	AvgMove            float64  `json:"avg_move"`     // mean raw % change
	AvgDirectionalMove float64  `json:"avg_dir_move"` // mean direction-normalized % change
	BullAccuracy       *float64 `json:"bull_accuracy,omitempty"`
	BearAccuracy       *float64 `json:"bear_accuracy,omitempty"`
}

// ConfidenceBucket holds stats for one confidence range [Low, High)
type ConfidenceBucket struct {
	Low           int     `json:"low"`
	High          int     `json:"high"`
	Count         int     `json:"count"`
	Accuracy      float64 `json:"accuracy"` // at the longest horizon
	AvgConfidence float64 `json:"avg_confidence"`
	AvgMFE        float64 `json:"avg_mfe"`
}

// SessionStats holds stats for one intraday session bucket
type SessionStats struct {
	Count         int     `json:"count"`
	Accuracy      float64 `json:"accuracy"` // at the longest horizon
	AvgConfidence float64 `json:"avg_confidence"`
}

// TickerReport is the per-ticker accuracy report over all qualifying predictions.
// A ticker that produced zero predictions carries Err and Predictions == 0.
type TickerReport struct {
	Ticker          string                  `json:"ticker"`
	Err             string                  `json:"error,omitempty"`
	Predictions     int                     `json:"predictions"`
	BullPredictions int                     `json:"bull_predictions"`
	BearPredictions int                     `json:"bear_predictions"`
	AvgConfidence   float64                 `json:"avg_confidence"`
	Horizons        map[string]HorizonStats `json:"horizons,omitempty"` // keyed by horizon label
	AvgMFE          float64                 `json:"avg_mfe"`
	AvgMAE          float64                 `json:"avg_mae"`
	MFEMAERatio     float64                 `json:"mfe_mae_ratio"`
	ConfidenceBins  []ConfidenceBucket      `json:"confidence_bins,omitempty"`
	Sessions        map[string]SessionStats `json:"session_breakdown,omitempty"`
	Raw             []Prediction            `json:"raw_predictions,omitempty"`
}

// Skipped reports whether this ticker contributed no qualifying predictions
func (r *TickerReport) Skipped() bool {
	return r.Predictions == 0
}

// SetupStats holds accuracy for one named setup across its triggered bars
type SetupStats struct {
	Setup    string             `json:"setup"`
	Count    int                `json:"count"`
	Long     int                `json:"long"`
	Short    int                `json:"short"`
	Accuracy map[string]float64 `json:"accuracy"` // keyed by horizon label
	AvgMFE   float64            `json:"avg_mfe"`
	AvgMAE   float64            `json:"avg_mae"`
}

// UniverseReport is the prediction-count-weighted rollup across tickers.
// Tickers with zero qualifying predictions are excluded, not counted as zero.
type UniverseReport struct {
	TickersTested    int                     `json:"tickers_tested"`
	TotalPredictions int                     `json:"total_predictions"`
	TotalBull        int                     `json:"total_bull"`
	TotalBear        int                     `json:"total_bear"`
	AvgConfidence    float64                 `json:"avg_confidence"`
	AvgMFE           float64                 `json:"avg_mfe"`
	AvgMAE           float64                 `json:"avg_mae"`
	Horizons         map[string]HorizonStats `json:"horizons,omitempty"`
}
